package metrics

import (
	"time"

	"github.com/aristath/quantfolio/internal/domain"
)

// trailing look-back windows, in calendar days
var lookbacks = []struct {
	days int
	set  func(*domain.PeriodReturns, *float64)
}{
	{30, func(p *domain.PeriodReturns, v *float64) { p.OneMonth = v }},
	{90, func(p *domain.PeriodReturns, v *float64) { p.ThreeMonths = v }},
	{180, func(p *domain.PeriodReturns, v *float64) { p.SixMonths = v }},
	{365, func(p *domain.PeriodReturns, v *float64) { p.OneYear = v }},
}

// PeriodReturns computes trailing returns measured from the last row of s.
// Each window uses the last price on or before (last date - window); the
// year-to-date figure uses the last price of the previous calendar year.
// Windows the history cannot reach are left nil.
func PeriodReturns(s domain.Series) domain.PeriodReturns {
	var out domain.PeriodReturns
	if s.IsEmpty() {
		return out
	}

	last := s.Rows[len(s.Rows)-1]
	for _, lb := range lookbacks {
		cutoff := last.Date.AddDate(0, 0, -lb.days)
		lb.set(&out, returnSince(s, cutoff, last.Price))
	}

	yearStart := time.Date(last.Date.Year(), time.January, 1, 0, 0, 0, 0, last.Date.Location())
	out.YearToDate = returnSince(s, yearStart.Add(-time.Nanosecond), last.Price)
	return out
}

func returnSince(s domain.Series, cutoff time.Time, lastPrice float64) *float64 {
	base := 0.0
	found := false
	for _, r := range s.Rows {
		if r.Date.After(cutoff) {
			break
		}
		base = r.Price
		found = true
	}
	if !found || base <= 0 {
		return nil
	}
	v := lastPrice/base - 1
	return &v
}
