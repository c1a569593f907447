// Package domain provides the typed records exchanged between the analytics
// modules and their callers.
package domain

import "time"

// PortfolioAssetCode tags a simulated portfolio so it never collides with a
// constituent's code in a downstream table.
const PortfolioAssetCode = "PORTFOLIO"

// PortfolioAssetName is the display name of a simulated portfolio.
const PortfolioAssetName = "Simulated Portfolio"

// RawObservation is a price row as handed over by the price-data collaborator.
// Date is either epoch milliseconds (numeric) or a day-first string; Price is
// numeric or a locale string using "." for thousands and "," for decimals.
type RawObservation struct {
	Date      any    `json:"date"`
	Price     any    `json:"price"`
	AssetCode string `json:"asset_code"`
	AssetName string `json:"asset_name"`
}

// PriceObservation is a cleaned price row.
type PriceObservation struct {
	Date      time.Time `json:"date"`
	AssetCode string    `json:"asset_code"`
	AssetName string    `json:"asset_name"`
	Price     float64   `json:"price"`
}

// SeriesRow is one dated observation of a Series together with its derived
// fields.
type SeriesRow struct {
	Date             time.Time `json:"date"`
	MovingAverage    *float64  `json:"moving_average,omitempty"` // display only
	RealReturn       *float64  `json:"real_return,omitempty"`    // set by the inflation adjuster
	Price            float64   `json:"price"`
	DailyReturn      float64   `json:"daily_return"`
	CumulativeReturn float64   `json:"cumulative_return"`
}

// Series is the ordered price history of a single asset.
type Series struct {
	AssetCode      string      `json:"asset_code"`
	AssetName      string      `json:"asset_name"`
	Rows           []SeriesRow `json:"rows"`
	ReturnsDerived bool        `json:"returns_derived"`
}

// Len returns the number of rows.
func (s Series) Len() int { return len(s.Rows) }

// IsEmpty reports whether the series has no rows.
func (s Series) IsEmpty() bool { return len(s.Rows) == 0 }

// Prices returns the price column.
func (s Series) Prices() []float64 {
	out := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Price
	}
	return out
}

// DailyReturns returns the daily return column.
func (s Series) DailyReturns() []float64 {
	out := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.DailyReturn
	}
	return out
}

// LastDate returns the date of the final row, or the zero time when empty.
func (s Series) LastDate() time.Time {
	if len(s.Rows) == 0 {
		return time.Time{}
	}
	return s.Rows[len(s.Rows)-1].Date
}

// Clone returns a deep copy so transforms never write into a caller's rows.
func (s Series) Clone() Series {
	out := s
	out.Rows = make([]SeriesRow, len(s.Rows))
	for i, r := range s.Rows {
		out.Rows[i] = r
		if r.MovingAverage != nil {
			v := *r.MovingAverage
			out.Rows[i].MovingAverage = &v
		}
		if r.RealReturn != nil {
			v := *r.RealReturn
			out.Rows[i].RealReturn = &v
		}
	}
	return out
}

// ReturnTable is a date-aligned matrix of daily returns: Returns[i][j] is the
// return of Assets[j] on Dates[i].
type ReturnTable struct {
	Dates   []time.Time `json:"dates"`
	Assets  []string    `json:"assets"`
	Returns [][]float64 `json:"returns"`
}

// IsEmpty reports whether the table has no rows or no columns.
func (t ReturnTable) IsEmpty() bool {
	return len(t.Dates) == 0 || len(t.Assets) == 0
}

// Column returns the return column of asset j.
func (t ReturnTable) Column(j int) []float64 {
	out := make([]float64, len(t.Returns))
	for i, row := range t.Returns {
		out[i] = row[j]
	}
	return out
}

// WeightVector maps an asset code to its portfolio weight.
type WeightVector map[string]float64

// Sum returns the total weight.
func (w WeightVector) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}
