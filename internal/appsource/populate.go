package appsource

import (
	"github.com/garyjia/travel-settlement/internal/engine"
	"github.com/garyjia/travel-settlement/internal/models"
)

// Populate merges a fetched application into the document:
//
//   - the header links to the application and takes its title;
//   - the roster is replaced when the application carries travelers;
//   - segments get location-resolved per-diem standards, a derived day count
//     and populated assignment sentinels (the designated lead, or the whole
//     roster when no assignment arrived);
//   - corporate expenses replace the previous corporate block, personal
//     expenses are kept untouched.
//
// The merge is a complete, self-consistent snapshot update: Populate is the
// only writer during an import and leaves no field half-applied.
func Populate(doc *models.Document, app *Application, resolver *engine.PerDiemResolver, classifier *engine.Classifier) {
	doc.Info.RequestID = app.ID
	doc.Info.Description = app.Title

	if len(app.Travelers) > 0 {
		doc.Travelers = append([]models.Traveler(nil), app.Travelers...)
	}

	doc.Segments = make([]models.TripSegment, len(app.Segments))
	for i, seg := range app.Segments {
		rate := resolver.Resolve(seg.ToCountry, seg.ToCity)
		seg.AreaTier = rate.Tier
		seg.MealRate = rate.MealRate
		seg.MiscRate = rate.MiscRate
		seg.Days = engine.SegmentDays(seg.StartDate, seg.EndDate)
		if seg.LeadTravelerID == "" {
			seg.LeadTravelerID = defaultLead(doc.Travelers)
		}
		if len(seg.TravelerIDs) == 0 {
			seg.TravelerIDs = rosterIDs(doc.Travelers)
		} else {
			seg.TravelerIDs = append([]string(nil), seg.TravelerIDs...)
		}
		doc.Segments[i] = seg
	}

	personal := doc.Expenses[:0]
	for _, exp := range doc.Expenses {
		if exp.Source == models.SourcePersonal {
			personal = append(personal, exp)
		}
	}
	doc.Expenses = personal
	for _, exp := range app.CorporateExpenses {
		exp.Source = models.SourceCorporate
		exp.ExpenseItem = classifier.Classify(exp.Category)
		exp.HomeAmount = engine.Normalize(exp.OriginalAmount, exp.ExchangeRate)
		doc.Expenses = append(doc.Expenses, exp)
	}
}

func defaultLead(travelers []models.Traveler) string {
	for _, t := range travelers {
		if t.IsLead {
			return t.ID
		}
	}
	if len(travelers) > 0 {
		return travelers[0].ID
	}
	return ""
}

func rosterIDs(travelers []models.Traveler) []string {
	ids := make([]string, len(travelers))
	for i, t := range travelers {
		ids[i] = t.ID
	}
	return ids
}
