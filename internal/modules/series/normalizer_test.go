package series

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/quantfolio/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected time.Time
		ok       bool
	}{
		{"epoch millis float", float64(1704153600000), day(2024, 1, 2), true},
		{"epoch millis int64", int64(1704153600000), day(2024, 1, 2), true},
		{"epoch millis json number", json.Number("1704153600000"), day(2024, 1, 2), true},
		{"day first dotted", "02.01.2024", day(2024, 1, 2), true},
		{"day first slashed", "02/01/2024", day(2024, 1, 2), true},
		{"day first with time", "15.03.2024 18:30:00", day(2024, 3, 15), true},
		{"iso", "2024-01-02", day(2024, 1, 2), true},
		{"time value", time.Date(2024, 1, 2, 17, 4, 0, 0, time.UTC), day(2024, 1, 2), true},
		{"garbage", "yesterday", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"nan", math.NaN(), time.Time{}, false},
		{"epoch millis infinite", math.Inf(1), time.Time{}, false},
		{"epoch millis beyond int64", 1e20, time.Time{}, false},
		{"epoch millis after year 9999", float64(253402300800000), time.Time{}, false},
		{"epoch millis before year 1", -1e15, time.Time{}, false},
		{"epoch millis json number out of range", json.Number("99999999999999999999"), time.Time{}, false},
		{"epoch millis last valid day", float64(253402214400000), day(9999, 12, 31), true},
		{"nil", nil, time.Time{}, false},
		{"unsupported type", []int{1}, time.Time{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseDate(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, tc.expected.Equal(got), "expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected float64
		ok       bool
	}{
		{"locale thousands and decimals", "3.450,20", 3450.20, true},
		{"locale decimals only", "1,234567", 1.234567, true},
		{"plain integer string", "42", 42, true},
		{"float", 12.5, 12.5, true},
		{"int", 7, 7, true},
		{"json number", json.Number("3.5"), 3.5, true},
		{"zero is not a price", 0.0, 0, false},
		{"negative", "-1,5", 0, false},
		{"not a number", "n/a", 0, false},
		{"inf", math.Inf(1), 0, false},
		{"nil", nil, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParsePrice(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.InDelta(t, tc.expected, got, 1e-9)
			}
		})
	}
}

func TestNormalize_DropsMalformedAndSorts(t *testing.T) {
	raw := []domain.RawObservation{
		{Date: "03.01.2024", Price: "1,30", AssetCode: "AAK", AssetName: "Fund A"},
		{Date: "bad date", Price: "1,10", AssetCode: "AAK"},
		{Date: "01.01.2024", Price: "1,10", AssetCode: "AAK", AssetName: "Fund A"},
		{Date: "02.01.2024", Price: "oops", AssetCode: "AAK"},
		{Date: float64(1704153600000), Price: 1.2, AssetCode: "AAK", AssetName: "Fund A"},
	}

	obs := Normalize(raw)

	require.Len(t, obs, 3)
	assert.Equal(t, day(2024, 1, 1), obs[0].Date)
	assert.Equal(t, day(2024, 1, 2), obs[1].Date)
	assert.Equal(t, day(2024, 1, 3), obs[2].Date)
	assert.InDelta(t, 1.3, obs[2].Price, 1e-12)
	assert.Equal(t, "Fund A", obs[0].AssetName)
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.Empty(t, Split(Normalize([]domain.RawObservation{})))
}

func TestNormalize_KeepsDuplicates(t *testing.T) {
	raw := []domain.RawObservation{
		{Date: "01.01.2024", Price: 10.0, AssetCode: "A"},
		{Date: "01.01.2024", Price: 12.0, AssetCode: "A"},
	}
	assert.Len(t, Normalize(raw), 2)
}

func TestSplitAndFilter(t *testing.T) {
	obs := []domain.PriceObservation{
		{Date: day(2024, 1, 1), Price: 1, AssetCode: "B", AssetName: "Bravo"},
		{Date: day(2024, 1, 1), Price: 2, AssetCode: "A", AssetName: "Alpha"},
		{Date: day(2024, 1, 2), Price: 3, AssetCode: "B", AssetName: "Bravo"},
	}

	list := Split(obs)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].AssetCode)
	assert.Equal(t, "Bravo", list[0].AssetName)
	assert.Len(t, list[0].Rows, 2)
	assert.Len(t, list[1].Rows, 1)

	filtered := Filter(list, []string{"A", "missing", "B"})
	require.Len(t, filtered, 2)
	assert.Equal(t, "A", filtered[0].AssetCode)
	assert.Equal(t, "B", filtered[1].AssetCode)
}
