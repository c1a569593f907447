package formulas

// DrawdownSeries returns (P_t - runningMax_t) / runningMax_t for every price.
// Values are non-positive.
func DrawdownSeries(prices []float64) []float64 {
	out := make([]float64, len(prices))
	if len(prices) == 0 {
		return out
	}

	peak := prices[0]
	for i, price := range prices {
		if price > peak {
			peak = price
		}
		out[i] = SafeRatio(price-peak, peak)
	}
	return out
}

// MaxDrawdown is the deepest peak-to-trough decline of a price series,
// expressed as a non-positive fraction (-0.25 = 25% below the running peak).
func MaxDrawdown(prices []float64) float64 {
	worst := 0.0
	for _, dd := range DrawdownSeries(prices) {
		if dd < worst {
			worst = dd
		}
	}
	return worst
}
