package reference

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Location is one row of the per-diem location table: daily meal and misc
// standards for a destination, in the reference currency.
type Location struct {
	Country  string  `json:"country"`
	City     string  `json:"city"`
	Tier     string  `json:"tier"`
	MealRate float64 `json:"meal_rate"`
	MiscRate float64 `json:"misc_rate"`
}

// LocationTable performs exact-match (country, city) lookups.
type LocationTable struct {
	locations []Location
	byKey     map[string]Location
}

func locationKey(country, city string) string {
	return country + "|" + city
}

// NewLocationTable builds a table from the given rows.
func NewLocationTable(locations []Location) *LocationTable {
	byKey := make(map[string]Location, len(locations))
	for _, l := range locations {
		byKey[locationKey(l.Country, l.City)] = l
	}
	return &LocationTable{locations: locations, byKey: byKey}
}

// BuiltinLocations returns the shipped per-diem standards table.
func BuiltinLocations() *LocationTable {
	return NewLocationTable([]Location{
		{Country: "美国", City: "纽约", Tier: "Tier1", MealRate: 50, MiscRate: 35},
		{Country: "美国", City: "旧金山", Tier: "Tier1", MealRate: 50, MiscRate: 35},
		{Country: "美国", City: "拉斯维加斯", Tier: "Tier1", MealRate: 50, MiscRate: 35},
		{Country: "英国", City: "伦敦", Tier: "Tier1", MealRate: 50, MiscRate: 35},
		{Country: "法国", City: "巴黎", Tier: "Tier1", MealRate: 50, MiscRate: 35},
		{Country: "日本", City: "东京", Tier: "Tier1", MealRate: 55, MiscRate: 30},
		{Country: "巴西", City: "里约热内卢", Tier: "Tier2", MealRate: 30, MiscRate: 45},
		{Country: "德国", City: "柏林", Tier: "Tier2", MealRate: 45, MiscRate: 25},
		{Country: "德国", City: "法兰克福", Tier: "Tier2", MealRate: 45, MiscRate: 25},
		{Country: "泰国", City: "曼谷", Tier: "Tier3", MealRate: 30, MiscRate: 15},
		{Country: "越南", City: "河内", Tier: "Tier3", MealRate: 30, MiscRate: 15},
	})
}

// Lookup returns the row for an exact (country, city) match.
func (t *LocationTable) Lookup(country, city string) (Location, bool) {
	l, ok := t.byKey[locationKey(country, city)]
	return l, ok
}

// Locations returns all rows in table order.
func (t *LocationTable) Locations() []Location {
	return t.locations
}

// LoadLocationsXLSX reads a per-diem table from the first sheet of an Excel
// workbook maintained by the finance team. Expected columns, with a header
// row: country, city, tier, meal rate, misc rate. Rows with an empty country
// or city are skipped; malformed rates fail the load.
func LoadLocationsXLSX(path string) (*LocationTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open location table: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var locations []Location
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 5 || row[0] == "" || row[1] == "" {
			continue
		}
		meal, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad meal rate %q: %w", i+1, row[3], err)
		}
		misc, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad misc rate %q: %w", i+1, row[4], err)
		}
		locations = append(locations, Location{
			Country:  row[0],
			City:     row[1],
			Tier:     row[2],
			MealRate: meal,
			MiscRate: misc,
		})
	}

	if len(locations) == 0 {
		return nil, fmt.Errorf("location table %s contains no rows", path)
	}
	return NewLocationTable(locations), nil
}
