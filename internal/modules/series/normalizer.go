// Package series turns raw price rows into clean, return-bearing series and
// aligns several series on their common dates.
package series

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aristath/quantfolio/internal/domain"
)

// dateLayouts are tried in order for string dates. Day-first layouts come
// before ISO ones.
var dateLayouts = []string{
	"02.01.2006",
	"02.01.2006 15:04",
	"02.01.2006 15:04:05",
	"02/01/2006",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"02-01-2006",
	"02-01-2006 15:04:05",
	"2.1.2006",
	"2/1/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Epoch-millisecond dates must fall within years 0001 through 9999.
const (
	minEpochMillis = -62135596800000
	maxEpochMillis = 253402300799999
)

// Normalize cleans raw rows into price observations sorted ascending by date.
// Rows whose date or price cannot be parsed, or whose price is not a
// positive finite number, are dropped. Duplicate (date, asset) rows are kept;
// Align averages them.
func Normalize(raw []domain.RawObservation) []domain.PriceObservation {
	out := make([]domain.PriceObservation, 0, len(raw))
	for _, r := range raw {
		date, ok := ParseDate(r.Date)
		if !ok {
			continue
		}
		price, ok := ParsePrice(r.Price)
		if !ok {
			continue
		}
		out = append(out, domain.PriceObservation{
			Date:      date,
			Price:     price,
			AssetCode: r.AssetCode,
			AssetName: r.AssetName,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// ParseDate converts a raw date field to a UTC calendar date. Numeric values
// are epoch milliseconds; strings are parsed day-first.
func ParseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return calendarDate(x), true
	case string:
		return parseDateString(x)
	case json.Number:
		if ms, err := x.Int64(); err == nil {
			return fromEpochMillis(float64(ms))
		}
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpochMillis(f)
	}

	if f, ok := numeric(v); ok {
		return fromEpochMillis(f)
	}
	return time.Time{}, false
}

// ParsePrice converts a raw price field. Strings use "." as the thousands
// separator and "," as the decimal separator ("3.450,20" is 3450.20).
func ParsePrice(v any) (float64, bool) {
	var price float64
	switch x := v.(type) {
	case string:
		cleaned := strings.TrimSpace(x)
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return 0, false
		}
		price, _ = d.Float64()
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		price = f
	default:
		f, ok := numeric(v)
		if !ok {
			return 0, false
		}
		price = f
	}

	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, false
	}
	return price, true
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDate(t), true
		}
	}
	return time.Time{}, false
}

func fromEpochMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || ms < minEpochMillis || ms > maxEpochMillis {
		return time.Time{}, false
	}
	return calendarDate(time.UnixMilli(int64(ms)).UTC()), true
}

func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

// Split groups observations by asset code, in order of first appearance.
// Each series keeps the observation order it was given.
func Split(obs []domain.PriceObservation) []domain.Series {
	index := make(map[string]int)
	var out []domain.Series
	for _, o := range obs {
		i, ok := index[o.AssetCode]
		if !ok {
			i = len(out)
			index[o.AssetCode] = i
			out = append(out, domain.Series{AssetCode: o.AssetCode, AssetName: o.AssetName})
		}
		out[i].Rows = append(out[i].Rows, domain.SeriesRow{Date: o.Date, Price: o.Price})
	}
	return out
}

// Filter returns the series whose code is in codes, in the order of codes.
// Unknown codes are skipped.
func Filter(list []domain.Series, codes []string) []domain.Series {
	byCode := make(map[string]domain.Series, len(list))
	for _, s := range list {
		if _, seen := byCode[s.AssetCode]; !seen {
			byCode[s.AssetCode] = s
		}
	}

	out := make([]domain.Series, 0, len(codes))
	for _, code := range codes {
		if s, ok := byCode[code]; ok {
			out = append(out, s)
		}
	}
	return out
}
