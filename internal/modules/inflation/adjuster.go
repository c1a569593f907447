// Package inflation deflates a series' cumulative return by a monthly
// inflation-rate series.
package inflation

import (
	"math"
	"sort"

	"github.com/aristath/quantfolio/internal/domain"
)

// DaysPerMonth spreads a monthly rate evenly over the days of a month.
const DaysPerMonth = 30

// AdjustForInflation returns a copy of s with RealReturn set on every row:
//
//	factor_t = (1 + rate_t/100)^(1/30)
//	index_t  = Π factor
//	real_t   = (1 + CumulativeReturn_t) / index_t − 1
//
// rate_t is the rate of the row's calendar month; months without an
// observation use the rate of the latest month in rates. When several
// observations share a month the later one wins. s is returned unchanged
// when either input is empty or s carries no derived returns.
func AdjustForInflation(s domain.Series, rates []domain.InflationObservation) domain.Series {
	if s.IsEmpty() || len(rates) == 0 || !s.ReturnsDerived {
		return s
	}

	byMonth, fallback := indexRates(rates)

	out := s.Clone()
	index := 1.0
	for i, r := range out.Rows {
		rate, ok := byMonth[domain.YearMonthOf(r.Date)]
		if !ok {
			rate = fallback
		}
		index *= math.Pow(1+rate/100, 1.0/DaysPerMonth)

		realReturn := (1+r.CumulativeReturn)/index - 1
		if math.IsNaN(realReturn) || math.IsInf(realReturn, 0) {
			realReturn = 0
		}
		out.Rows[i].RealReturn = &realReturn
	}
	return out
}

// indexRates keys rates by month and returns the rate of the latest month.
func indexRates(rates []domain.InflationObservation) (map[domain.YearMonth]float64, float64) {
	byMonth := make(map[domain.YearMonth]float64, len(rates))
	for _, obs := range rates {
		byMonth[obs.YearMonth] = obs.MonthlyRatePercent
	}

	months := make([]domain.YearMonth, 0, len(byMonth))
	for ym := range byMonth {
		months = append(months, ym)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	return byMonth, byMonth[months[len(months)-1]]
}
