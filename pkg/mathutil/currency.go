// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// SafeRatio divides numerator by denominator, returning fallback when the
// denominator is zero. Keeps NaN/Inf out of derived indices.
func SafeRatio(numerator, denominator, fallback float64) float64 {
	if denominator == 0 {
		return fallback
	}
	return numerator / denominator
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}
