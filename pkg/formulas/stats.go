// Package formulas holds the numeric building blocks shared by the analytics
// modules: descriptive statistics over gonum/stat, annualization, drawdown and
// the guarded ratio used wherever a denominator can vanish.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization factor for daily observations.
const TradingDaysPerYear = 252

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation (N-1). Fewer than two
// observations have no spread and yield 0.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the sample variance (N-1).
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// Covariance calculates the sample covariance between two datasets
func Covariance(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	return stat.Covariance(x, y, nil)
}

// Correlation calculates the Pearson correlation coefficient between two
// datasets. A series without variance has no defined correlation and yields 0.
func Correlation(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	if Variance(x) == 0 || Variance(y) == 0 {
		return 0
	}
	return Finite(stat.Correlation(x, y, nil))
}

// AnnualizedReturn scales a mean daily return to a yearly figure.
func AnnualizedReturn(dailyReturns []float64) float64 {
	return Mean(dailyReturns) * TradingDaysPerYear
}

// AnnualizedVolatility calculates annualized volatility from daily returns
// Formula: Std Dev of Daily Returns × sqrt(252 trading days)
func AnnualizedVolatility(dailyReturns []float64) float64 {
	return StdDev(dailyReturns) * math.Sqrt(TradingDaysPerYear)
}

// Negatives returns the strictly negative values of data, in order.
func Negatives(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if v < 0 {
			out = append(out, v)
		}
	}
	return out
}

// DownsideVolatility is the annualized standard deviation of the negative
// daily returns only.
func DownsideVolatility(dailyReturns []float64) float64 {
	return AnnualizedVolatility(Negatives(dailyReturns))
}

// CalculateReturns converts prices to simple returns.
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]; undefined steps are 0.
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = Finite(prices[i]/prices[i-1] - 1)
	}
	return returns
}
