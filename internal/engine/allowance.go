package engine

import (
	"math"
	"time"

	"github.com/garyjia/travel-settlement/internal/models"
)

const dateLayout = "2006-01-02"

// SegmentDays derives the billable day count for a date range. An identical
// start and end date counts as one day, not zero; an inverted range or any
// missing/unparseable date yields zero days and therefore zero allowance.
func SegmentDays(startDate, endDate string) int {
	if startDate == "" || endDate == "" {
		return 0
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0
	}
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	switch {
	case days > 0:
		return days
	case days == 0:
		return 1
	default:
		return 0
	}
}

// Apportioner computes per-diem allowances for trip segments. The reference
// rate converts the nominal-USD standards to home currency; it is an injected
// configuration value, independent of the editable per-expense exchange rates.
type Apportioner struct {
	referenceRate float64
}

// NewApportioner creates an apportioner with the given foreign-to-home
// reference rate.
func NewApportioner(referenceRate float64) *Apportioner {
	return &Apportioner{referenceRate: referenceRate}
}

// ApportionSegment computes one segment's allowance. Charter suppresses the
// misc rate; each business meal deducts a third of the daily meal rate per
// person; the per-person total clamps at zero. Rounding to cents happens once,
// at the home-currency conversion, so downstream sums stay exact in cents.
// Only travelers present in the roster count toward the segment total.
func (a *Apportioner) ApportionSegment(seg *models.TripSegment, roster map[string]struct{}) models.SegmentAllowance {
	misc := seg.MiscRate
	if seg.IsChartered {
		misc = 0
	}

	deductionPerPerson := float64(seg.BusinessMeals) * (seg.MealRate / 3)
	perPersonForeign := math.Max(0, (seg.MealRate+misc)*float64(seg.Days)-deductionPerPerson)
	perPersonHome := Round2(perPersonForeign * a.referenceRate)

	personCount := 0
	for _, id := range seg.AssignedTravelerIDs() {
		if _, ok := roster[id]; ok {
			personCount++
		}
	}

	return models.SegmentAllowance{
		SegmentID:        seg.ID,
		Days:             seg.Days,
		PersonCount:      personCount,
		PerPersonForeign: perPersonForeign,
		PerPersonHome:    perPersonHome,
		TotalHome:        perPersonHome * float64(personCount),
		DeductionTotal:   deductionPerPerson * float64(personCount),
	}
}

// Apportion computes allowances for every segment of the document. Each
// assigned roster member accumulates the segment's per-person home amount;
// a traveler on N segments accumulates N independent per-person amounts.
// Travelers no longer on the roster are pruned from accumulation.
func (a *Apportioner) Apportion(doc *models.Document) ([]models.SegmentAllowance, map[string]float64, float64) {
	roster := make(map[string]struct{}, len(doc.Travelers))
	byTraveler := make(map[string]float64, len(doc.Travelers))
	for _, t := range doc.Travelers {
		roster[t.ID] = struct{}{}
		byTraveler[t.ID] = 0
	}

	details := make([]models.SegmentAllowance, 0, len(doc.Segments))
	var total float64
	for i := range doc.Segments {
		seg := &doc.Segments[i]
		detail := a.ApportionSegment(seg, roster)
		for _, id := range seg.AssignedTravelerIDs() {
			if _, ok := roster[id]; ok {
				byTraveler[id] += detail.PerPersonHome
			}
		}
		total += detail.TotalHome
		details = append(details, detail)
	}
	return details, byTraveler, total
}
