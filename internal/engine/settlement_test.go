package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/garyjia/travel-settlement/internal/models"
)

func newTestEngine() *Engine {
	return NewEngine(NewApportioner(7.23), zap.NewNop())
}

func TestComputeSettlement_LoanNetting(t *testing.T) {
	engine := newTestEngine()
	doc := &models.Document{
		Travelers: []models.Traveler{{ID: "U1", Name: "张三"}},
		Expenses: []models.ExpenseRecord{
			{ID: 201, Source: models.SourcePersonal, PayeeID: "U1", HomeAmount: 1000},
			{ID: 202, Source: models.SourcePersonal, PayeeID: "U1", HomeAmount: 500},
		},
		Loans: []models.LoanClearance{
			{ID: 301, TravelerID: "U1", LoanAmount: 300, ClearedAmount: 300},
		},
	}

	view := engine.ComputeSettlement(doc)

	assert.InDelta(t, 1500.0, view.PersonalTotal, 0.001)
	assert.InDelta(t, 300.0, view.LoanOffsetTotal, 0.001)
	assert.InDelta(t, 1200.0, view.Settlements["U1"], 0.001)
	assert.InDelta(t, 1200.0, view.PayableTotal, 0.001)
}

func TestComputeSettlement_CorporateNeverPayable(t *testing.T) {
	engine := newTestEngine()
	doc := &models.Document{
		Travelers: []models.Traveler{{ID: "U1"}},
		Expenses: []models.ExpenseRecord{
			{ID: 201, Source: models.SourcePersonal, PayeeID: "U1", HomeAmount: 800},
			{ID: 202, Source: models.SourceCorporate, PayeeID: "U1", HomeAmount: 12000},
		},
	}

	view := engine.ComputeSettlement(doc)

	assert.InDelta(t, 800.0, view.PersonalTotal, 0.001)
	assert.InDelta(t, 12000.0, view.CorporateTotal, 0.001)
	assert.InDelta(t, 12800.0, view.GrandTotal, 0.001)
	assert.InDelta(t, 800.0, view.Settlements["U1"], 0.001)
	assert.InDelta(t, 800.0, view.PayableTotal, 0.001)
}

func TestComputeSettlement_NegativeNetIsValid(t *testing.T) {
	// A traveler whose cleared loans exceed their expenses and allowance owes
	// money back; the settlement is reported as a negative net.
	engine := newTestEngine()
	doc := &models.Document{
		Travelers: []models.Traveler{{ID: "U1"}},
		Expenses: []models.ExpenseRecord{
			{ID: 201, Source: models.SourcePersonal, PayeeID: "U1", HomeAmount: 400},
		},
		Loans: []models.LoanClearance{
			{ID: 301, TravelerID: "U1", LoanAmount: 1000, ClearedAmount: 1000},
		},
	}

	view := engine.ComputeSettlement(doc)

	assert.InDelta(t, -600.0, view.Settlements["U1"], 0.001)
	assert.InDelta(t, -600.0, view.PayableTotal, 0.001)
}

func TestComputeSettlement_OffRosterPayeeStillReported(t *testing.T) {
	engine := newTestEngine()
	doc := &models.Document{
		Travelers: []models.Traveler{{ID: "U1"}},
		Expenses: []models.ExpenseRecord{
			{ID: 201, Source: models.SourcePersonal, PayeeID: "GONE", HomeAmount: 250},
		},
	}

	view := engine.ComputeSettlement(doc)

	assert.InDelta(t, 250.0, view.Settlements["GONE"], 0.001)
	assert.InDelta(t, 250.0, view.PayableTotal, 0.001)
}

func TestComputeSettlement_Identity(t *testing.T) {
	// Sum of per-traveler nets plus the loan offset equals personal expense
	// total plus allowance total, cent for cent.
	engine := newTestEngine()
	doc := &models.Document{
		Travelers: []models.Traveler{{ID: "U1"}, {ID: "U2"}, {ID: "U3"}},
		Segments: []models.TripSegment{
			{ID: 101, Days: 4, MealRate: 50, MiscRate: 35, LeadTravelerID: "U1", TravelerIDs: []string{"U2"}},
			{ID: 102, Days: 2, MealRate: 45, MiscRate: 25, BusinessMeals: 1, LeadTravelerID: "U3"},
		},
		Expenses: []models.ExpenseRecord{
			{ID: 201, Source: models.SourcePersonal, PayeeID: "U1", HomeAmount: 1590.60},
			{ID: 202, Source: models.SourcePersonal, PayeeID: "U3", HomeAmount: 433.80},
			{ID: 203, Source: models.SourceCorporate, PayeeID: "U2", HomeAmount: 9000},
		},
		Loans: []models.LoanClearance{
			{ID: 301, TravelerID: "U1", LoanAmount: 2000, ClearedAmount: 700},
			{ID: 302, TravelerID: "U2", LoanAmount: 500, ClearedAmount: 500},
		},
	}

	view := engine.ComputeSettlement(doc)

	var netSum float64
	for _, net := range view.Settlements {
		netSum += net
	}
	assert.InDelta(t, view.PersonalTotal+view.AllowanceTotal, netSum+view.LoanOffsetTotal, 0.001)
	assert.InDelta(t, view.PayableTotal, netSum, 0.001)
	assert.InDelta(t, view.PersonalTotal+view.CorporateTotal+view.AllowanceTotal, view.GrandTotal, 0.001)
}

func TestComputeSettlement_EmptyDocument(t *testing.T) {
	engine := newTestEngine()
	doc := &models.Document{Travelers: []models.Traveler{{ID: "U1"}}}

	view := engine.ComputeSettlement(doc)

	assert.Zero(t, view.GrandTotal)
	assert.Zero(t, view.PayableTotal)
	assert.Zero(t, view.Settlements["U1"])
	assert.Empty(t, view.Segments)
}
