package optimization

import "math"

// Bounds is the per-asset weight interval shared by every asset.
type Bounds struct {
	Min float64
	Max float64
}

// feasibleBounds widens b so that n assets can always sum to 1: the floor is
// lowered to 1/n when n·Min > 1, the ceiling raised to 1/n when n·Max < 1.
func feasibleBounds(n int, b Bounds) Bounds {
	if n <= 0 {
		return b
	}
	equal := 1.0 / float64(n)
	if b.Min < 0 {
		b.Min = 0
	}
	if float64(n)*b.Min > 1 {
		b.Min = equal
	}
	if float64(n)*b.Max < 1 {
		b.Max = equal
	}
	if b.Max < b.Min {
		b.Max = b.Min
	}
	return b
}

// projectionIterations bounds the bisection on the shift τ.
const projectionIterations = 200

// projectToSimplex returns the Euclidean projection of x onto
// {w : Σw = 1, Min ≤ w_i ≤ Max}. The projection has the form
// w_i = clip(x_i − τ, Min, Max) for the unique τ at which the weights sum to 1,
// found by bisection.
func projectToSimplex(x []float64, b Bounds) []float64 {
	n := len(x)
	w := make([]float64, n)
	if n == 0 {
		return w
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range x {
		if !finite(v) {
			v = 0
		}
		lo = math.Min(lo, v-b.Max)
		hi = math.Max(hi, v-b.Min)
	}

	sumAt := func(tau float64) float64 {
		s := 0.0
		for i, v := range x {
			if !finite(v) {
				v = 0
			}
			w[i] = clip(v-tau, b.Min, b.Max)
			s += w[i]
		}
		return s
	}

	// sumAt is non-increasing in τ: sumAt(lo) = n·Max ≥ 1, sumAt(hi) = n·Min ≤ 1.
	for iter := 0; iter < projectionIterations && hi-lo > 1e-15; iter++ {
		mid := 0.5 * (lo + hi)
		if sumAt(mid) > 1 {
			lo = mid
		} else {
			hi = mid
		}
	}
	sumAt(0.5 * (lo + hi))
	return w
}

// distanceSquared is ‖a − b‖².
func distanceSquared(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
