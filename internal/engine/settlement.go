package engine

import (
	"go.uber.org/zap"

	"github.com/garyjia/travel-settlement/internal/models"
)

// Engine is the settlement computation engine: a pure snapshot-in,
// snapshot-out derivation over a reimbursement document. It keeps no mutable
// state of its own, so ComputeSettlement is safe to call from concurrent
// contexts.
type Engine struct {
	apportioner *Apportioner
	logger      *zap.Logger
}

// NewEngine creates an engine using the given apportioner.
func NewEngine(apportioner *Apportioner, logger *zap.Logger) *Engine {
	return &Engine{apportioner: apportioner, logger: logger}
}

// ComputeSettlement folds expenses, per-segment allowances and loan
// clearances into the per-traveler net payables and organization rollups.
//
// Per-traveler net = personal-expense payee share + allowance share − loan
// clearances. Corporate expenses count toward the grand total only; they are
// never payable. Settlements keyed by a payee id that is no longer on the
// roster are still reported, so the settlement identity (sum of nets plus
// loan offsets equals personal plus allowance) holds for any document.
func (e *Engine) ComputeSettlement(doc *models.Document) *models.SettlementView {
	segments, allowanceByTraveler, allowanceTotal := e.apportioner.Apportion(doc)

	settlements := make(map[string]float64, len(doc.Travelers))
	for id, allowance := range allowanceByTraveler {
		settlements[id] = allowance
	}

	var personalTotal, corporateTotal float64
	for i := range doc.Expenses {
		exp := &doc.Expenses[i]
		switch exp.Source {
		case models.SourceCorporate:
			corporateTotal += exp.HomeAmount
		default:
			personalTotal += exp.HomeAmount
			settlements[exp.PayeeID] += exp.HomeAmount
		}
	}

	var loanOffsetTotal float64
	for i := range doc.Loans {
		loan := &doc.Loans[i]
		loanOffsetTotal += loan.ClearedAmount
		settlements[loan.TravelerID] -= loan.ClearedAmount
	}

	view := &models.SettlementView{
		PersonalTotal:       Round2(personalTotal),
		CorporateTotal:      Round2(corporateTotal),
		AllowanceTotal:      Round2(allowanceTotal),
		GrandTotal:          Round2(personalTotal + corporateTotal + allowanceTotal),
		LoanOffsetTotal:     Round2(loanOffsetTotal),
		PayableTotal:        Round2(personalTotal + allowanceTotal - loanOffsetTotal),
		AllowanceByTraveler: allowanceByTraveler,
		Settlements:         settlements,
		Segments:            segments,
	}

	e.logger.Debug("settlement computed",
		zap.String("document_id", doc.ID),
		zap.Float64("personal_total", view.PersonalTotal),
		zap.Float64("corporate_total", view.CorporateTotal),
		zap.Float64("allowance_total", view.AllowanceTotal),
		zap.Float64("payable_total", view.PayableTotal))

	return view
}
