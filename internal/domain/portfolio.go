package domain

import (
	"fmt"
	"time"
)

// PortfolioPoint is a portfolio's position in return/risk space.
type PortfolioPoint struct {
	Return     float64 `json:"return"`
	Volatility float64 `json:"volatility"`
	Sharpe     float64 `json:"sharpe"`
}

// OptimalPortfolio is a solved optimum. Converged is false when the solver
// failed and Weights hold the equal-weight fallback.
type OptimalPortfolio struct {
	Weights WeightVector `json:"weights"`
	PortfolioPoint
	Converged bool `json:"converged"`
}

// FrontierPoint is one solved point of the efficient frontier.
type FrontierPoint struct {
	Weights      WeightVector `json:"weights"`
	TargetReturn float64      `json:"target_return"`
	Return       float64      `json:"return"`
	Volatility   float64      `json:"volatility"`
}

// FrontierResult bundles the efficient frontier with its highlighted optima
// and the random sampling cloud drawn behind it.
type FrontierResult struct {
	Assets         []string         `json:"assets"`
	RandomCloud    []PortfolioPoint `json:"random_cloud"`
	FrontierCurve  []FrontierPoint  `json:"frontier_curve"`
	MaxSharpe      OptimalPortfolio `json:"max_sharpe"`
	MinVolatility  OptimalPortfolio `json:"min_volatility"`
	MeanReturns    []float64        `json:"mean_returns"`
	CovarianceRows [][]float64      `json:"covariance"`
}

// VaRResult is a parametric one-day Value-at-Risk estimate.
type VaRResult struct {
	Amount          float64 `json:"amount"` // loss magnitude, never negative
	Percent         float64 `json:"percent"`
	ConfidenceLevel float64 `json:"confidence_level"`
	ZScore          float64 `json:"z_score"`
}

// MonteCarloPaths is the projected fan of price paths. Paths[k][i] is the
// value of simulation k on Dates[i].
type MonteCarloPaths struct {
	Dates         []time.Time `json:"dates"`
	Paths         [][]float64 `json:"paths"`
	StartingValue float64     `json:"starting_value"`
	// MeanReturn and Volatility are the daily mean and standard deviation
	// the paths were calibrated on; Drift is the per-step log drift
	// MeanReturn − Volatility²/2.
	MeanReturn float64 `json:"mean_return"`
	Drift      float64 `json:"drift"`
	Volatility float64 `json:"volatility"`
}

// Simulations returns the number of paths.
func (m MonteCarloPaths) Simulations() int { return len(m.Paths) }

// YearMonth is a calendar month key.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// YearMonthOf returns the calendar month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Before reports whether ym precedes other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// ParseYearMonth parses "2006-01" (a trailing day, "2006-01-02", is ignored).
func ParseYearMonth(s string) (YearMonth, error) {
	if len(s) > len("2006-01") {
		s = s[:len("2006-01")]
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid year-month %q: %w", s, err)
	}
	return YearMonthOf(t), nil
}

// MarshalText encodes the month as "2006-01".
func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

// UnmarshalText decodes "2006-01".
func (ym *YearMonth) UnmarshalText(text []byte) error {
	parsed, err := ParseYearMonth(string(text))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// InflationObservation is a monthly inflation rate in percent (3.2 = 3.2%).
type InflationObservation struct {
	YearMonth          YearMonth `json:"year_month"`
	MonthlyRatePercent float64   `json:"monthly_rate_percent"`
}
