package models

// TripSegment is one leg of an international itinerary. MealRate and MiscRate
// are daily per-diem standards in the reference currency (nominal USD). Days is
// derived from the date range and recomputed whenever either date changes.
type TripSegment struct {
	ID          int64   `json:"id"`
	FromCountry string  `json:"from_country"`
	FromCity    string  `json:"from_city"`
	ToCountry   string  `json:"to_country"`
	ToCity      string  `json:"to_city"`
	StartDate   string  `json:"start_date"` // YYYY-MM-DD
	EndDate     string  `json:"end_date"`   // YYYY-MM-DD
	Days        int     `json:"days"`
	AreaTier    string  `json:"area_tier"`
	MealRate    float64 `json:"meal_rate"`
	MiscRate    float64 `json:"misc_rate"`

	// IsChartered marks segments where ground transportation is fully
	// arranged; the misc/incidental rate is suppressed for such segments.
	IsChartered bool `json:"is_chartered"`

	// BusinessMeals counts employer-hosted meals already covered elsewhere;
	// each one deducts a third of the daily meal rate per person.
	BusinessMeals int `json:"business_meals"`

	// LeadTravelerID designates the segment lead. It is orthogonal to the
	// assignment set: the lead is always considered assigned.
	LeadTravelerID string   `json:"lead_traveler_id"`
	TravelerIDs    []string `json:"traveler_ids"`
}

// AssignedTravelerIDs returns the distinct, non-empty set of traveler ids
// assigned to the segment (lead plus fellows, deduplicated), preserving
// first-seen order.
func (s *TripSegment) AssignedTravelerIDs() []string {
	seen := make(map[string]struct{}, len(s.TravelerIDs)+1)
	ids := make([]string, 0, len(s.TravelerIDs)+1)
	for _, id := range append([]string{s.LeadTravelerID}, s.TravelerIDs...) {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
