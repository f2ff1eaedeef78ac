package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/garyjia/travel-settlement/internal/reference"
)

func TestPerDiemResolver_Resolve(t *testing.T) {
	resolver := NewPerDiemResolver(reference.BuiltinLocations())

	tests := []struct {
		name     string
		country  string
		city     string
		expected PerDiemRate
	}{
		{
			name:     "tier 1 destination",
			country:  "美国",
			city:     "拉斯维加斯",
			expected: PerDiemRate{Tier: "Tier1", MealRate: 50, MiscRate: 35},
		},
		{
			name:     "tier 2 destination",
			country:  "德国",
			city:     "法兰克福",
			expected: PerDiemRate{Tier: "Tier2", MealRate: 45, MiscRate: 25},
		},
		{
			name:     "tier 3 destination",
			country:  "泰国",
			city:     "曼谷",
			expected: PerDiemRate{Tier: "Tier3", MealRate: 30, MiscRate: 15},
		},
		{
			name:     "unmapped city falls back to defaults with unspecified tier",
			country:  "美国",
			city:     "奥斯汀",
			expected: PerDiemRate{MealRate: 50, MiscRate: 35},
		},
		{
			name:     "empty destination falls back to defaults",
			expected: PerDiemRate{MealRate: 50, MiscRate: 35},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolver.Resolve(tt.country, tt.city))
		})
	}
}
