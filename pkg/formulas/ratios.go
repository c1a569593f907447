package formulas

import "math"

// SharpeRatio calculates the annualized Sharpe ratio of daily returns with a
// zero risk-free rate:
//
//	Sharpe = (mean(r) × 252) / (stdev(r) × √252)
//
// Zero or undefined volatility yields 0.
func SharpeRatio(dailyReturns []float64) float64 {
	return SafeRatio(AnnualizedReturn(dailyReturns), AnnualizedVolatility(dailyReturns))
}

// SortinoRatio is the Sharpe numerator over the annualized standard deviation
// of the negative returns. Fewer than two losing days leave the downside
// deviation undefined and yield 0.
func SortinoRatio(dailyReturns []float64) float64 {
	return SafeRatio(AnnualizedReturn(dailyReturns), DownsideVolatility(dailyReturns))
}

// CalmarRatio divides the annualized mean return by the magnitude of the
// maximum drawdown; a series that never fell below its peak yields 0.
func CalmarRatio(dailyReturns []float64, maxDrawdown float64) float64 {
	return SafeRatio(AnnualizedReturn(dailyReturns), math.Abs(maxDrawdown))
}
