package domain

import "time"

// RiskMetrics summarizes the risk and return profile of one series.
type RiskMetrics struct {
	Comparative          *ComparativeMetrics `json:"comparative,omitempty"`
	TotalReturn          float64             `json:"total_return"`
	AnnualizedVolatility float64             `json:"annualized_volatility"`
	Sharpe               float64             `json:"sharpe"`
	Sortino              float64             `json:"sortino"`
	Calmar               float64             `json:"calmar"`
	MaxDrawdown          float64             `json:"max_drawdown"`
}

// ComparativeMetrics are the benchmark-relative measures. They exist only
// when a benchmark with enough overlapping history was supplied.
type ComparativeMetrics struct {
	Beta             float64 `json:"beta"`
	Alpha            float64 `json:"alpha"`
	Treynor          float64 `json:"treynor"`
	RSquared         float64 `json:"r_squared"`
	InformationRatio float64 `json:"information_ratio"`
	Observations     int     `json:"observations"`
}

// PeriodReturns holds trailing returns over calendar look-back windows. A nil
// entry means the history does not reach back far enough.
type PeriodReturns struct {
	OneMonth    *float64 `json:"one_month"`
	ThreeMonths *float64 `json:"three_months"`
	SixMonths   *float64 `json:"six_months"`
	OneYear     *float64 `json:"one_year"`
	YearToDate  *float64 `json:"year_to_date"`
}

// CorrelationMatrix is the pairwise Pearson correlation of aligned returns.
type CorrelationMatrix struct {
	Assets []string    `json:"assets"`
	Values [][]float64 `json:"values"`
}

// ComparisonRow is one date of an asset rebased against a benchmark.
type ComparisonRow struct {
	Date                time.Time `json:"date"`
	Price               float64   `json:"price"`
	BenchmarkPrice      float64   `json:"benchmark_price"`
	Cumulative          float64   `json:"cumulative"`
	BenchmarkCumulative float64   `json:"benchmark_cumulative"`
}
