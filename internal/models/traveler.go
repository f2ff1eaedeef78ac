package models

// Traveler is a roster member on a reimbursement document. Bank fields are the
// settlement destination for any net payable owed to this person.
type Traveler struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Level       string `json:"level"` // seniority level, e.g. M2, P5
	IsLead      bool   `json:"is_lead"`
	Passport    string `json:"passport"`
	BankAccount string `json:"bank_account"`
	BankName    string `json:"bank_name"`
}
