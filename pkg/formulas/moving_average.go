package formulas

import (
	"github.com/markcheno/go-talib"
)

// SimpleMovingAverage returns the trailing window-period mean of values.
// The result has the same length as values; entries before the first full
// window are 0 and ok[i] is false for them. Inputs shorter than the window
// produce no averages.
func SimpleMovingAverage(values []float64, window int) (avg []float64, ok []bool) {
	avg = make([]float64, len(values))
	ok = make([]bool, len(values))
	if window <= 0 || len(values) < window {
		return avg, ok
	}

	sma := talib.Sma(values, window)
	for i := window - 1; i < len(values) && i < len(sma); i++ {
		avg[i] = sma[i]
		ok[i] = true
	}
	return avg, ok
}
