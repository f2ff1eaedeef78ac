// Package engine implements the settlement computation: currency
// normalization, per-diem resolution, allowance apportionment, expense
// classification and the final per-traveler settlement aggregation. Every
// operation here is total: unmapped keys, bad dates and empty assignments
// degrade to documented defaults instead of failing.
package engine

import "math"

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Normalize converts a foreign amount to home currency at the given rate,
// rounded to cents. Negative amounts pass through unchanged in sign; policy
// validation is not this layer's concern.
func Normalize(amount, rate float64) float64 {
	return Round2(amount * rate)
}
