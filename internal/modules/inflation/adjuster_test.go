package inflation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/quantfolio/internal/domain"
	"github.com/aristath/quantfolio/internal/modules/series"
)

func dailySeries(first time.Time, prices ...float64) domain.Series {
	s := domain.Series{AssetCode: domain.PortfolioAssetCode}
	for i, p := range prices {
		s.Rows = append(s.Rows, domain.SeriesRow{Date: first.AddDate(0, 0, i), Price: p})
	}
	return series.DeriveReturns(s)
}

func month(y int, m time.Month) domain.YearMonth {
	return domain.YearMonth{Year: y, Month: m}
}

func TestAdjustForInflation_NoOp(t *testing.T) {
	s := dailySeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 100, 101)
	rates := []domain.InflationObservation{{YearMonth: month(2024, 1), MonthlyRatePercent: 1}}

	testCases := []struct {
		name   string
		series domain.Series
		rates  []domain.InflationObservation
	}{
		{"empty series", domain.Series{}, rates},
		{"empty rates", s, nil},
		{"returns not derived", domain.Series{Rows: []domain.SeriesRow{{Date: s.Rows[0].Date, Price: 1}}}, rates},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := AdjustForInflation(tc.series, tc.rates)
			assert.Equal(t, tc.series, got)
		})
	}
}

func TestAdjustForInflation_Values(t *testing.T) {
	s := dailySeries(time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC), 100, 101, 102)
	rates := []domain.InflationObservation{
		{YearMonth: month(2024, 1), MonthlyRatePercent: 3},
		{YearMonth: month(2024, 2), MonthlyRatePercent: 6},
	}

	got := AdjustForInflation(s, rates)

	require.Len(t, got.Rows, 3)
	jan := math.Pow(1.03, 1.0/30)
	feb := math.Pow(1.06, 1.0/30)

	require.NotNil(t, got.Rows[0].RealReturn)
	assert.InDelta(t, 1/jan-1, *got.Rows[0].RealReturn, 1e-12)
	assert.InDelta(t, 1.01/(jan*jan)-1, *got.Rows[1].RealReturn, 1e-12)
	assert.InDelta(t, 1.02/(jan*jan*feb)-1, *got.Rows[2].RealReturn, 1e-12)

	assert.Nil(t, s.Rows[0].RealReturn, "input must not be modified")
}

func TestAdjustForInflation_MissingMonthsUseLatestRate(t *testing.T) {
	s := dailySeries(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 100, 100)
	rates := []domain.InflationObservation{
		{YearMonth: month(2024, 2), MonthlyRatePercent: 9},
		{YearMonth: month(2023, 12), MonthlyRatePercent: 1},
	}

	got := AdjustForInflation(s, rates)

	factor := math.Pow(1.09, 1.0/30)
	assert.InDelta(t, 1/factor-1, *got.Rows[0].RealReturn, 1e-12)
	assert.InDelta(t, 1/(factor*factor)-1, *got.Rows[1].RealReturn, 1e-12)
}

func TestAdjustForInflation_LaterDuplicateWins(t *testing.T) {
	s := dailySeries(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 100)
	rates := []domain.InflationObservation{
		{YearMonth: month(2024, 5), MonthlyRatePercent: 2},
		{YearMonth: month(2024, 5), MonthlyRatePercent: 4},
	}

	got := AdjustForInflation(s, rates)

	assert.InDelta(t, 1/math.Pow(1.04, 1.0/30)-1, *got.Rows[0].RealReturn, 1e-12)
}
