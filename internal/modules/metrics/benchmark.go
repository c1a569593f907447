package metrics

import (
	"github.com/aristath/quantfolio/internal/domain"
	"github.com/aristath/quantfolio/internal/modules/series"
)

// CompareToBenchmark rebases s and benchmark to cumulative returns from the
// first date both have a price for.
func CompareToBenchmark(s, benchmark domain.Series) []domain.ComparisonRow {
	dates, pa, pb := series.JoinPrices(s, benchmark)
	if len(dates) == 0 {
		return nil
	}

	rows := make([]domain.ComparisonRow, len(dates))
	for i, d := range dates {
		rows[i] = domain.ComparisonRow{
			Date:                d,
			Price:               pa[i],
			BenchmarkPrice:      pb[i],
			Cumulative:          pa[i]/pa[0] - 1,
			BenchmarkCumulative: pb[i]/pb[0] - 1,
		}
	}
	return rows
}
