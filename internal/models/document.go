package models

// BasicInfo holds the document header fields.
type BasicInfo struct {
	DocNo       string `json:"doc_no"`
	DocDate     string `json:"doc_date"`
	Reimburser  string `json:"reimburser"`
	PassportNo  string `json:"passport_no"`
	RequestID   string `json:"request_id"` // linked travel application id
	Description string `json:"description"`
	CostOrg     string `json:"cost_org"`
	CostDept    string `json:"cost_dept"`
}

// Document is a single reimbursement document. It owns its travelers,
// segments, expenses and loan clearances; there is no cross-document sharing.
// The settlement engine never mutates a document, it only derives views.
type Document struct {
	ID        string          `json:"id"`
	Info      BasicInfo       `json:"info"`
	Travelers []Traveler      `json:"travelers"`
	Segments  []TripSegment   `json:"segments"`
	Expenses  []ExpenseRecord `json:"expenses"`
	Loans     []LoanClearance `json:"loans"`
}

// Clone returns a deep copy of the document, so callers can hand out
// snapshots without exposing internal state to mutation.
func (d *Document) Clone() *Document {
	c := &Document{
		ID:   d.ID,
		Info: d.Info,
	}
	c.Travelers = append([]Traveler(nil), d.Travelers...)
	c.Expenses = append([]ExpenseRecord(nil), d.Expenses...)
	c.Loans = append([]LoanClearance(nil), d.Loans...)
	c.Segments = make([]TripSegment, len(d.Segments))
	for i, s := range d.Segments {
		s.TravelerIDs = append([]string(nil), s.TravelerIDs...)
		c.Segments[i] = s
	}
	return c
}

// Traveler returns the roster member with the given id, or nil.
func (d *Document) Traveler(id string) *Traveler {
	for i := range d.Travelers {
		if d.Travelers[i].ID == id {
			return &d.Travelers[i]
		}
	}
	return nil
}

// Segment returns the trip segment with the given id, or nil.
func (d *Document) Segment(id int64) *TripSegment {
	for i := range d.Segments {
		if d.Segments[i].ID == id {
			return &d.Segments[i]
		}
	}
	return nil
}

// Expense returns the expense record with the given id, or nil.
func (d *Document) Expense(id int64) *ExpenseRecord {
	for i := range d.Expenses {
		if d.Expenses[i].ID == id {
			return &d.Expenses[i]
		}
	}
	return nil
}

// Loan returns the loan clearance with the given id, or nil.
func (d *Document) Loan(id int64) *LoanClearance {
	for i := range d.Loans {
		if d.Loans[i].ID == id {
			return &d.Loans[i]
		}
	}
	return nil
}
