// Package risk estimates the parametric one-day Value-at-Risk of a
// portfolio.
package risk

import (
	"math"

	"github.com/aristath/quantfolio/internal/domain"
	"github.com/aristath/quantfolio/internal/modules/series"
	"github.com/aristath/quantfolio/pkg/formulas"
)

// Supported confidence levels and their one-sided normal quantiles.
const (
	Confidence95 = 0.95
	Confidence99 = 0.99

	z95 = 1.645
	z99 = 2.33
)

// ZScore returns the normal quantile used for confidence. Levels other than
// 0.95 and 0.99 fall back to the 95% quantile.
func ZScore(confidence float64) float64 {
	if confidence == Confidence99 {
		return z99
	}
	return z95
}

// ValueAtRisk estimates the one-day parametric VaR of portfolio held at
// capital:
//
//	Percent = z·σ − μ
//	Amount  = |capital · Percent|
//
// where μ and σ are the mean and sample standard deviation of the daily
// returns. It returns nil for an empty portfolio.
func ValueAtRisk(portfolio domain.Series, capital, confidence float64) *domain.VaRResult {
	if portfolio.IsEmpty() {
		return nil
	}
	portfolio = series.EnsureReturns(portfolio)
	daily := formulas.Sanitize(portfolio.DailyReturns())

	z := ZScore(confidence)
	pct := formulas.Finite(z*formulas.StdDev(daily) - formulas.Mean(daily))

	return &domain.VaRResult{
		Amount:          math.Abs(formulas.Finite(capital * pct)),
		Percent:         pct,
		ConfidenceLevel: confidence,
		ZScore:          z,
	}
}
