package series

import (
	"github.com/aristath/quantfolio/internal/domain"
	"github.com/aristath/quantfolio/pkg/formulas"
)

// MovingAverageWindow is the look-back of the display moving average.
const MovingAverageWindow = 30

// DeriveReturns returns a copy of s with DailyReturn, CumulativeReturn and
// the moving average filled in. The first daily return is 0; any undefined
// step (zero or missing prior price) is sanitized to 0 before chaining.
func DeriveReturns(s domain.Series) domain.Series {
	out := s.Clone()
	if out.IsEmpty() {
		out.ReturnsDerived = true
		return out
	}

	prices := out.Prices()
	daily := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		daily[i] = prices[i]/prices[i-1] - 1
	}
	daily = formulas.Sanitize(daily)

	growth := 1.0
	avg, ok := formulas.SimpleMovingAverage(prices, MovingAverageWindow)
	for i := range out.Rows {
		growth *= 1 + daily[i]
		out.Rows[i].DailyReturn = daily[i]
		out.Rows[i].CumulativeReturn = growth - 1
		out.Rows[i].MovingAverage = nil
		if ok[i] {
			v := avg[i]
			out.Rows[i].MovingAverage = &v
		}
	}
	out.ReturnsDerived = true
	return out
}

// EnsureReturns derives returns only when s has not been derived yet.
func EnsureReturns(s domain.Series) domain.Series {
	if s.ReturnsDerived {
		return s
	}
	return DeriveReturns(s)
}

// DeriveAll derives every series in list.
func DeriveAll(list []domain.Series) []domain.Series {
	out := make([]domain.Series, len(list))
	for i, s := range list {
		out[i] = DeriveReturns(s)
	}
	return out
}
