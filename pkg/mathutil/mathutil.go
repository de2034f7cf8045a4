// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/PyBalance/Audit-Sampling/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons and for the sampling grid step.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundToUnits rounds a monetary amount to a whole number of monetary units
// using banker's rounding (half to even, the conventional statistical
// rounding). Negative amounts map to zero units.
func RoundToUnits(val float64) uint64 {
	r := math.RoundToEven(val)
	if r <= 0 || math.IsNaN(r) {
		return 0
	}
	return uint64(r)
}

// CeilToInt rounds a value up to an integer, treating non-positive values as
// zero.
func CeilToInt(val float64) int {
	if val <= 0 {
		return 0
	}
	return int(math.Ceil(val))
}

// SumNonNegative sums a slice of amounts. Negative, zero, and non-finite
// entries contribute nothing.
func SumNonNegative(values []float64) float64 {
	var sum float64
	for _, v := range values {
		if v > 0 && !math.IsInf(v, 0) {
			sum += v
		}
	}
	return sum
}

// IsFinite reports whether a value is a real, finite number.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Min returns the minimum of two uint64 values
func Min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
