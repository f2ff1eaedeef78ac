package models

// LoanClearance applies a prior cash advance against the current settlement.
type LoanClearance struct {
	ID            int64   `json:"id"`
	TravelerID    string  `json:"traveler_id"`
	LoanNo        string  `json:"loan_no"`
	LoanAmount    float64 `json:"loan_amount"`    // CNY
	ClearedAmount float64 `json:"cleared_amount"` // CNY, applied this settlement
}

// Remaining returns the outstanding balance after this clearance. Over-cleared
// loans legitimately go negative; the engine does not forbid it.
func (l *LoanClearance) Remaining() float64 {
	return l.LoanAmount - l.ClearedAmount
}
