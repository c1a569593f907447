package formulas

import "math"

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Finite maps NaN and ±Inf to 0 and passes every other value through.
func Finite(v float64) float64 {
	if IsFinite(v) {
		return v
	}
	return 0
}

// Sanitize returns a copy of values with every NaN or ±Inf replaced by 0.
// It is applied once when a series is derived so downstream code can assume
// finite inputs.
func Sanitize(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = Finite(v)
	}
	return out
}

// SafeRatio divides num by den, returning 0 whenever the denominator is zero
// or non-finite or the quotient is not finite.
func SafeRatio(num, den float64) float64 {
	if den == 0 || !IsFinite(den) || !IsFinite(num) {
		return 0
	}
	return Finite(num / den)
}
