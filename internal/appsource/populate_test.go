package appsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/travel-settlement/internal/engine"
	"github.com/garyjia/travel-settlement/internal/models"
	"github.com/garyjia/travel-settlement/internal/reference"
)

func populateDeps() (*engine.PerDiemResolver, *engine.Classifier) {
	return engine.NewPerDiemResolver(reference.BuiltinLocations()),
		engine.NewClassifier(reference.BuiltinExpenseItems())
}

func TestPopulate_HeaderAndRoster(t *testing.T) {
	resolver, classifier := populateDeps()
	doc := &models.Document{
		Travelers: []models.Traveler{{ID: "OLD", Name: "新人员"}},
	}
	app := &BuiltinPool()[0]

	Populate(doc, app, resolver, classifier)

	assert.Equal(t, app.ID, doc.Info.RequestID)
	assert.Equal(t, app.Title, doc.Info.Description)
	require.Len(t, doc.Travelers, 2)
	assert.Equal(t, "U1", doc.Travelers[0].ID)
}

func TestPopulate_KeepsRosterWhenApplicationHasNone(t *testing.T) {
	resolver, classifier := populateDeps()
	doc := &models.Document{
		Travelers: []models.Traveler{{ID: "KEEP", Name: "留任者"}},
	}
	app := &Application{ID: "TRIP-EMPTY", Title: "空申请"}

	Populate(doc, app, resolver, classifier)

	require.Len(t, doc.Travelers, 1)
	assert.Equal(t, "KEEP", doc.Travelers[0].ID)
	assert.Empty(t, doc.Segments)
}

func TestPopulate_SegmentsGetResolvedStandards(t *testing.T) {
	resolver, classifier := populateDeps()
	doc := &models.Document{}
	app := &BuiltinPool()[1] // Frankfurt + Paris

	Populate(doc, app, resolver, classifier)

	require.Len(t, doc.Segments, 2)

	frankfurt := doc.Segments[0]
	assert.Equal(t, "Tier2", frankfurt.AreaTier)
	assert.InDelta(t, 45.0, frankfurt.MealRate, 0.001)
	assert.InDelta(t, 25.0, frankfurt.MiscRate, 0.001)
	assert.Equal(t, 1, frankfurt.Days)

	paris := doc.Segments[1]
	assert.Equal(t, "Tier1", paris.AreaTier)
	assert.Equal(t, 4, paris.Days)
}

func TestPopulate_AssignmentDefaults(t *testing.T) {
	resolver, classifier := populateDeps()
	doc := &models.Document{}
	app := &Application{
		ID:    "TRIP-DEFAULTS",
		Title: "默认分配",
		Travelers: []models.Traveler{
			{ID: "U1", Name: "张三"},
			{ID: "U2", Name: "李四", IsLead: true},
		},
		Segments: []models.TripSegment{
			{ID: 1, ToCountry: "泰国", ToCity: "曼谷", StartDate: "2024-03-01", EndDate: "2024-03-03"},
		},
	}

	Populate(doc, app, resolver, classifier)

	require.Len(t, doc.Segments, 1)
	seg := doc.Segments[0]
	assert.Equal(t, "U2", seg.LeadTravelerID)
	assert.Equal(t, []string{"U1", "U2"}, seg.TravelerIDs)
}

func TestPopulate_PersonalKeptCorporateReplaced(t *testing.T) {
	resolver, classifier := populateDeps()
	doc := &models.Document{
		Expenses: []models.ExpenseRecord{
			{ID: 1, Source: models.SourcePersonal, PayeeID: "U1", HomeAmount: 300},
			{ID: 2, Source: models.SourceCorporate, PayeeID: "CORP", HomeAmount: 9999},
		},
	}
	app := &Application{
		ID:    "TRIP-EXP",
		Title: "费用合并",
		CorporateExpenses: []models.ExpenseRecord{
			{ID: 10, Category: "住宿", Currency: "USD", ExchangeRate: 7.23, OriginalAmount: 800},
		},
	}

	Populate(doc, app, resolver, classifier)

	require.Len(t, doc.Expenses, 2)
	assert.Equal(t, int64(1), doc.Expenses[0].ID)

	corp := doc.Expenses[1]
	assert.Equal(t, models.SourceCorporate, corp.Source)
	assert.Equal(t, "境外差旅费", corp.ExpenseItem)
	assert.InDelta(t, 5784.00, corp.HomeAmount, 0.001)
}
