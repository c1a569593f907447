// Package metrics computes single-asset risk measures, benchmark-relative
// measures and multi-asset correlation from return series.
package metrics

import (
	"math"

	"github.com/aristath/quantfolio/internal/domain"
	"github.com/aristath/quantfolio/internal/modules/series"
	"github.com/aristath/quantfolio/pkg/formulas"
)

// MinComparativeObservations is the smallest date overlap for which
// benchmark-relative measures are reported.
const MinComparativeObservations = 20

// nearZeroBeta guards the Treynor ratio against a vanishing beta.
const nearZeroBeta = 0.01

// Risk returns the risk profile of s, or nil when s has fewer than two rows.
func Risk(s domain.Series) *domain.RiskMetrics {
	if s.Len() < 2 {
		return nil
	}
	s = series.EnsureReturns(s)

	prices := s.Prices()
	daily := formulas.Sanitize(s.DailyReturns())
	maxDD := formulas.MaxDrawdown(prices)

	return &domain.RiskMetrics{
		TotalReturn:          totalReturn(prices),
		AnnualizedVolatility: formulas.Finite(formulas.AnnualizedVolatility(daily)),
		Sharpe:               formulas.SharpeRatio(daily),
		Sortino:              formulas.SortinoRatio(daily),
		Calmar:               formulas.CalmarRatio(daily, maxDD),
		MaxDrawdown:          maxDD,
	}
}

func totalReturn(prices []float64) float64 {
	first, last := prices[0], prices[len(prices)-1]
	if first <= 0 {
		return 0
	}
	return formulas.Finite(last/first - 1)
}

// RiskWithBenchmark returns Risk(s) with the comparative block attached when
// the benchmark overlaps s on enough dates.
func RiskWithBenchmark(s, benchmark domain.Series) *domain.RiskMetrics {
	m := Risk(s)
	if m == nil {
		return nil
	}
	m.Comparative = Comparative(s, benchmark)
	return m
}

// Comparative computes Beta, Jensen's Alpha (zero risk-free rate), Treynor,
// R² and the Information Ratio of s against benchmark.
//
// The two series are inner-joined on date and daily returns are recomputed
// on the joined prices, so a gap in either series becomes one multi-day
// step. It returns nil when fewer than MinComparativeObservations dates
// overlap or the benchmark has no variance.
func Comparative(s, benchmark domain.Series) *domain.ComparativeMetrics {
	_, pa, pb := series.JoinPrices(s, benchmark)
	if len(pa) < MinComparativeObservations {
		return nil
	}

	asset := formulas.CalculateReturns(pa)
	bench := formulas.CalculateReturns(pb)

	benchVar := formulas.Variance(bench)
	if benchVar == 0 || !formulas.IsFinite(benchVar) {
		return nil
	}

	beta := formulas.Covariance(asset, bench) / benchVar
	annAsset := formulas.AnnualizedReturn(asset)
	annBench := formulas.AnnualizedReturn(bench)

	active := make([]float64, len(asset))
	for i := range asset {
		active[i] = asset[i] - bench[i]
	}
	trackingError := formulas.AnnualizedVolatility(active)

	treynor := 0.0
	if math.Abs(beta) > nearZeroBeta {
		treynor = formulas.SafeRatio(annAsset, beta)
	}

	corr := formulas.Correlation(asset, bench)

	return &domain.ComparativeMetrics{
		Beta:             formulas.Finite(beta),
		Alpha:            formulas.Finite(annAsset - beta*annBench),
		Treynor:          treynor,
		RSquared:         corr * corr,
		InformationRatio: formulas.SafeRatio(annAsset-annBench, trackingError),
		Observations:     len(pa),
	}
}
