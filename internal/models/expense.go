package models

// ExpenseSource discriminates who paid an expense.
type ExpenseSource string

const (
	// SourcePersonal marks employee-paid outlays, reimbursable to the payee.
	SourcePersonal ExpenseSource = "personal"
	// SourceCorporate marks employer pre-paid outlays, informational only.
	SourceCorporate ExpenseSource = "corporate"
)

// ExpenseRecord is a single monetary line on the document. HomeAmount is a
// hard invariant, not a cache: it always equals OriginalAmount * ExchangeRate
// rounded to cents, re-derived on any mutation of amount, currency or rate.
type ExpenseRecord struct {
	ID             int64         `json:"id"`
	Source         ExpenseSource `json:"source"`
	Category       string        `json:"category"` // free-form, drives classification
	Type           string        `json:"type"`
	ExpenseItem    string        `json:"expense_item"` // classified accounting label
	Date           string        `json:"date"`
	Currency       string        `json:"currency"`
	ExchangeRate   float64       `json:"exchange_rate"`   // home units per 1 foreign unit
	OriginalAmount float64       `json:"original_amount"` // foreign units
	HomeAmount     float64       `json:"home_amount"`     // CNY, derived
	ConsumerID     string        `json:"consumer_id"`     // who benefited
	PayeeID        string        `json:"payee_id"`        // who is owed reimbursement
	Description    string        `json:"description"`
	Receipt        bool          `json:"receipt"`
	InvoiceNo      string        `json:"invoice_no,omitempty"`
	InvoiceFile    string        `json:"invoice_file,omitempty"`
}

// HasEvidence reports whether any evidentiary reference is attached.
func (e *ExpenseRecord) HasEvidence() bool {
	return e.InvoiceNo != "" || e.InvoiceFile != ""
}
