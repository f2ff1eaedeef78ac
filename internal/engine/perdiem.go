package engine

import "github.com/garyjia/travel-settlement/internal/reference"

// Default per-diem standards applied when a destination is not in the
// location table.
const (
	DefaultMealRate = 50
	DefaultMiscRate = 35
)

// PerDiemRate is the resolved daily standard for a destination.
type PerDiemRate struct {
	Tier     string  `json:"tier"`
	MealRate float64 `json:"meal_rate"`
	MiscRate float64 `json:"misc_rate"`
}

// PerDiemResolver maps destinations to per-diem standards via the location
// reference table. Resolution happens when a destination is set; the table is
// not consulted again retroactively.
type PerDiemResolver struct {
	locations *reference.LocationTable
}

// NewPerDiemResolver creates a resolver over the given location table.
func NewPerDiemResolver(locations *reference.LocationTable) *PerDiemResolver {
	return &PerDiemResolver{locations: locations}
}

// Resolve returns the per-diem standard for a destination. Unmapped
// destinations get the default rates with the tier left unspecified.
func (r *PerDiemResolver) Resolve(country, city string) PerDiemRate {
	if loc, ok := r.locations.Lookup(country, city); ok {
		return PerDiemRate{Tier: loc.Tier, MealRate: loc.MealRate, MiscRate: loc.MiscRate}
	}
	return PerDiemRate{MealRate: DefaultMealRate, MiscRate: DefaultMiscRate}
}
