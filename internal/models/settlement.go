package models

// SegmentAllowance is the per-segment allowance breakdown. Foreign amounts are
// in the reference currency (nominal USD), home amounts in CNY.
type SegmentAllowance struct {
	SegmentID        int64   `json:"segment_id"`
	Days             int     `json:"days"`
	PersonCount      int     `json:"person_count"`
	PerPersonForeign float64 `json:"per_person_foreign"`
	PerPersonHome    float64 `json:"per_person_home"`
	TotalHome        float64 `json:"total_home"`
	DeductionTotal   float64 `json:"deduction_total"` // foreign units, all persons
}

// SettlementView is the full derived settlement for a document. It is a pure
// projection: recomputed from scratch on every input change, never mutated
// independently, and never persisted.
type SettlementView struct {
	PersonalTotal   float64 `json:"personal_total"`
	CorporateTotal  float64 `json:"corporate_total"` // informational, never payable
	AllowanceTotal  float64 `json:"allowance_total"`
	GrandTotal      float64 `json:"grand_total"`
	LoanOffsetTotal float64 `json:"loan_offset_total"`
	PayableTotal    float64 `json:"payable_total"`

	// AllowanceByTraveler maps traveler id to accumulated per-diem allowance.
	AllowanceByTraveler map[string]float64 `json:"allowance_by_traveler"`

	// Settlements maps traveler id to net payable. Negative amounts mean the
	// traveler owes money back; they are valid results, not errors.
	Settlements map[string]float64 `json:"settlements"`

	Segments []SegmentAllowance `json:"segments"`
}
