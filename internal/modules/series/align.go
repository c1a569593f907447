package series

import (
	"sort"
	"time"

	"github.com/aristath/quantfolio/internal/domain"
	"github.com/aristath/quantfolio/pkg/formulas"
)

type dailyAccumulator struct {
	sum   float64
	count int
}

// Align builds the daily-return table of list on the dates every series has
// in common. Duplicate dates within one series are averaged; rows holding any
// non-finite value are dropped. Series that have not been derived yet are
// derived first. Columns follow the order of list, with repeated codes merged.
func Align(list []domain.Series) domain.ReturnTable {
	var assets []string
	columns := make(map[string]map[time.Time]*dailyAccumulator)

	for _, s := range list {
		s = EnsureReturns(s)
		col, ok := columns[s.AssetCode]
		if !ok {
			col = make(map[time.Time]*dailyAccumulator)
			columns[s.AssetCode] = col
			assets = append(assets, s.AssetCode)
		}
		for _, r := range s.Rows {
			d := calendarDate(r.Date)
			acc, ok := col[d]
			if !ok {
				acc = &dailyAccumulator{}
				col[d] = acc
			}
			acc.sum += r.DailyReturn
			acc.count++
		}
	}

	if len(assets) == 0 {
		return domain.ReturnTable{}
	}

	var dates []time.Time
	for d := range columns[assets[0]] {
		inAll := true
		for _, code := range assets[1:] {
			if _, ok := columns[code][d]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	table := domain.ReturnTable{Assets: assets}
	for _, d := range dates {
		row := make([]float64, len(assets))
		finite := true
		for j, code := range assets {
			acc := columns[code][d]
			row[j] = acc.sum / float64(acc.count)
			if !formulas.IsFinite(row[j]) {
				finite = false
				break
			}
		}
		if !finite {
			continue
		}
		table.Dates = append(table.Dates, d)
		table.Returns = append(table.Returns, row)
	}
	return table
}

// JoinPrices inner-joins two series on date, averaging duplicate dates, and
// returns the common dates with both price columns.
func JoinPrices(a, b domain.Series) (dates []time.Time, pa, pb []float64) {
	avgA := averagePrices(a)
	avgB := averagePrices(b)

	for d := range avgA {
		if _, ok := avgB[d]; ok {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	pa = make([]float64, len(dates))
	pb = make([]float64, len(dates))
	for i, d := range dates {
		pa[i] = avgA[d]
		pb[i] = avgB[d]
	}
	return dates, pa, pb
}

func averagePrices(s domain.Series) map[time.Time]float64 {
	acc := make(map[time.Time]*dailyAccumulator, len(s.Rows))
	for _, r := range s.Rows {
		d := calendarDate(r.Date)
		a, ok := acc[d]
		if !ok {
			a = &dailyAccumulator{}
			acc[d] = a
		}
		a.sum += r.Price
		a.count++
	}

	out := make(map[time.Time]float64, len(acc))
	for d, a := range acc {
		out[d] = a.sum / float64(a.count)
	}
	return out
}
