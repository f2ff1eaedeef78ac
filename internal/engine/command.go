package engine

import (
	"errors"
	"fmt"

	"github.com/garyjia/travel-settlement/internal/models"
	"github.com/garyjia/travel-settlement/internal/reference"
)

var (
	// ErrSegmentNotFound is returned when a command targets a missing segment.
	ErrSegmentNotFound = errors.New("trip segment not found")
	// ErrExpenseNotFound is returned when a command targets a missing expense.
	ErrExpenseNotFound = errors.New("expense record not found")
	// ErrLoanNotFound is returned when a command targets a missing loan.
	ErrLoanNotFound = errors.New("loan clearance not found")
)

// Command is a typed document mutation. Each variant carries exactly the
// fields it changes plus a narrow, explicit re-derivation rule applied by the
// Applier; there is no stringly field dispatch.
type Command interface {
	// Name returns the wire identifier of the command variant.
	Name() string
}

// SetSegmentDates changes a segment's date range and re-derives its day count.
type SetSegmentDates struct {
	SegmentID int64  `json:"segment_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SetSegmentRoute changes a segment's origin/destination. A recognized
// destination re-resolves the per-diem tier and rates from the location table.
type SetSegmentRoute struct {
	SegmentID   int64  `json:"segment_id"`
	FromCountry string `json:"from_country"`
	FromCity    string `json:"from_city"`
	ToCountry   string `json:"to_country"`
	ToCity      string `json:"to_city"`
}

// SetSegmentRates overrides a segment's tier and daily standards. Auto
// resolved rates are editable, not locked.
type SetSegmentRates struct {
	SegmentID int64   `json:"segment_id"`
	AreaTier  string  `json:"area_tier"`
	MealRate  float64 `json:"meal_rate"`
	MiscRate  float64 `json:"misc_rate"`
}

// SetSegmentCharter toggles the chartered-transportation flag.
type SetSegmentCharter struct {
	SegmentID   int64 `json:"segment_id"`
	IsChartered bool  `json:"is_chartered"`
}

// SetSegmentBusinessMeals changes the employer-hosted meal count.
type SetSegmentBusinessMeals struct {
	SegmentID int64 `json:"segment_id"`
	Count     int   `json:"count"`
}

// SetSegmentTravelers replaces a segment's lead and assignment set.
type SetSegmentTravelers struct {
	SegmentID      int64    `json:"segment_id"`
	LeadTravelerID string   `json:"lead_traveler_id"`
	TravelerIDs    []string `json:"traveler_ids"`
}

// SetExpenseCurrency changes an expense's currency, snaps the editable rate to
// the currency table and renormalizes the home amount.
type SetExpenseCurrency struct {
	ExpenseID int64  `json:"expense_id"`
	Currency  string `json:"currency"`
}

// SetExpenseRate overrides an expense's exchange rate and renormalizes.
type SetExpenseRate struct {
	ExpenseID int64   `json:"expense_id"`
	Rate      float64 `json:"rate"`
}

// SetExpenseAmount changes an expense's foreign amount and renormalizes.
type SetExpenseAmount struct {
	ExpenseID int64   `json:"expense_id"`
	Amount    float64 `json:"amount"`
}

// SetExpenseCategory changes the free-form category and reclassifies the
// canonical expense item.
type SetExpenseCategory struct {
	ExpenseID int64  `json:"expense_id"`
	Category  string `json:"category"`
}

// SetExpensePayee redirects who is owed reimbursement for an expense.
type SetExpensePayee struct {
	ExpenseID int64  `json:"expense_id"`
	PayeeID   string `json:"payee_id"`
}

// SetExpenseDescription changes the free-text description.
type SetExpenseDescription struct {
	ExpenseID   int64  `json:"expense_id"`
	Description string `json:"description"`
}

// BindInvoice attaches evidentiary references to an expense and refreshes the
// receipt flag: present iff either reference is non-empty.
type BindInvoice struct {
	ExpenseID   int64  `json:"expense_id"`
	InvoiceNo   string `json:"invoice_no"`
	InvoiceFile string `json:"invoice_file"`
}

// SetLoanCleared changes the amount cleared against a loan this settlement.
// Over-clearing is accepted; Remaining goes negative.
type SetLoanCleared struct {
	LoanID int64   `json:"loan_id"`
	Amount float64 `json:"amount"`
}

// SetLoanAmount changes the original loan amount.
type SetLoanAmount struct {
	LoanID int64   `json:"loan_id"`
	Amount float64 `json:"amount"`
}

func (SetSegmentDates) Name() string         { return "set_segment_dates" }
func (SetSegmentRoute) Name() string         { return "set_segment_route" }
func (SetSegmentRates) Name() string         { return "set_segment_rates" }
func (SetSegmentCharter) Name() string       { return "set_segment_charter" }
func (SetSegmentBusinessMeals) Name() string { return "set_segment_business_meals" }
func (SetSegmentTravelers) Name() string     { return "set_segment_travelers" }
func (SetExpenseCurrency) Name() string      { return "set_expense_currency" }
func (SetExpenseRate) Name() string          { return "set_expense_rate" }
func (SetExpenseAmount) Name() string        { return "set_expense_amount" }
func (SetExpenseCategory) Name() string      { return "set_expense_category" }
func (SetExpensePayee) Name() string         { return "set_expense_payee" }
func (SetExpenseDescription) Name() string   { return "set_expense_description" }
func (BindInvoice) Name() string             { return "bind_invoice" }
func (SetLoanCleared) Name() string          { return "set_loan_cleared" }
func (SetLoanAmount) Name() string           { return "set_loan_amount" }

// Applier applies commands to documents, enforcing each variant's
// re-derivation rule so derived fields never drift from their sources.
type Applier struct {
	resolver   *PerDiemResolver
	classifier *Classifier
	currencies *reference.CurrencyTable
}

// NewApplier creates a command applier over the given resolvers and tables.
func NewApplier(resolver *PerDiemResolver, classifier *Classifier, currencies *reference.CurrencyTable) *Applier {
	return &Applier{resolver: resolver, classifier: classifier, currencies: currencies}
}

// Apply mutates the document according to the command. The only failure mode
// is a missing target row.
func (a *Applier) Apply(doc *models.Document, cmd Command) error {
	switch c := cmd.(type) {
	case SetSegmentDates:
		seg := doc.Segment(c.SegmentID)
		if seg == nil {
			return ErrSegmentNotFound
		}
		seg.StartDate = c.StartDate
		seg.EndDate = c.EndDate
		seg.Days = SegmentDays(seg.StartDate, seg.EndDate)

	case SetSegmentRoute:
		seg := doc.Segment(c.SegmentID)
		if seg == nil {
			return ErrSegmentNotFound
		}
		destinationChanged := seg.ToCountry != c.ToCountry || seg.ToCity != c.ToCity
		seg.FromCountry, seg.FromCity = c.FromCountry, c.FromCity
		seg.ToCountry, seg.ToCity = c.ToCountry, c.ToCity
		if destinationChanged {
			rate := a.resolver.Resolve(seg.ToCountry, seg.ToCity)
			seg.AreaTier = rate.Tier
			seg.MealRate = rate.MealRate
			seg.MiscRate = rate.MiscRate
		}

	case SetSegmentRates:
		seg := doc.Segment(c.SegmentID)
		if seg == nil {
			return ErrSegmentNotFound
		}
		seg.AreaTier = c.AreaTier
		seg.MealRate = c.MealRate
		seg.MiscRate = c.MiscRate

	case SetSegmentCharter:
		seg := doc.Segment(c.SegmentID)
		if seg == nil {
			return ErrSegmentNotFound
		}
		seg.IsChartered = c.IsChartered

	case SetSegmentBusinessMeals:
		seg := doc.Segment(c.SegmentID)
		if seg == nil {
			return ErrSegmentNotFound
		}
		seg.BusinessMeals = c.Count

	case SetSegmentTravelers:
		seg := doc.Segment(c.SegmentID)
		if seg == nil {
			return ErrSegmentNotFound
		}
		seg.LeadTravelerID = c.LeadTravelerID
		seg.TravelerIDs = append([]string(nil), c.TravelerIDs...)

	case SetExpenseCurrency:
		exp := doc.Expense(c.ExpenseID)
		if exp == nil {
			return ErrExpenseNotFound
		}
		exp.Currency = c.Currency
		exp.ExchangeRate = a.currencies.Rate(c.Currency)
		exp.HomeAmount = Normalize(exp.OriginalAmount, exp.ExchangeRate)

	case SetExpenseRate:
		exp := doc.Expense(c.ExpenseID)
		if exp == nil {
			return ErrExpenseNotFound
		}
		exp.ExchangeRate = c.Rate
		exp.HomeAmount = Normalize(exp.OriginalAmount, exp.ExchangeRate)

	case SetExpenseAmount:
		exp := doc.Expense(c.ExpenseID)
		if exp == nil {
			return ErrExpenseNotFound
		}
		exp.OriginalAmount = c.Amount
		exp.HomeAmount = Normalize(exp.OriginalAmount, exp.ExchangeRate)

	case SetExpenseCategory:
		exp := doc.Expense(c.ExpenseID)
		if exp == nil {
			return ErrExpenseNotFound
		}
		exp.Category = c.Category
		exp.ExpenseItem = a.classifier.Classify(c.Category)

	case SetExpensePayee:
		exp := doc.Expense(c.ExpenseID)
		if exp == nil {
			return ErrExpenseNotFound
		}
		exp.PayeeID = c.PayeeID

	case SetExpenseDescription:
		exp := doc.Expense(c.ExpenseID)
		if exp == nil {
			return ErrExpenseNotFound
		}
		exp.Description = c.Description

	case BindInvoice:
		exp := doc.Expense(c.ExpenseID)
		if exp == nil {
			return ErrExpenseNotFound
		}
		exp.InvoiceNo = c.InvoiceNo
		exp.InvoiceFile = c.InvoiceFile
		exp.Receipt = exp.HasEvidence()

	case SetLoanCleared:
		loan := doc.Loan(c.LoanID)
		if loan == nil {
			return ErrLoanNotFound
		}
		loan.ClearedAmount = c.Amount

	case SetLoanAmount:
		loan := doc.Loan(c.LoanID)
		if loan == nil {
			return ErrLoanNotFound
		}
		loan.LoanAmount = c.Amount

	default:
		return fmt.Errorf("unknown command %q", cmd.Name())
	}
	return nil
}
