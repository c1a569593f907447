// Package portfolio simulates a weighted, chain-linked portfolio from its
// constituents' aligned daily returns.
package portfolio

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/quantfolio/internal/domain"
	"github.com/aristath/quantfolio/internal/modules/series"
)

// ErrInvalidWeight is returned when a weight is negative or not finite.
var ErrInvalidWeight = errors.New("invalid portfolio weight")

// EffectiveWeights validates weights and renormalizes them to sum to 1.
// A zero total yields an empty vector and no error.
func EffectiveWeights(weights domain.WeightVector) (domain.WeightVector, error) {
	total := 0.0
	for code, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, fmt.Errorf("%w: %s=%v", ErrInvalidWeight, code, w)
		}
		total += w
	}

	out := make(domain.WeightVector, len(weights))
	if total == 0 {
		return out, nil
	}
	for code, w := range weights {
		out[code] = w / total
	}
	return out, nil
}

// Simulate builds the portfolio series of list held at weights, starting from
// initialCapital on the first common date.
//
// Only series whose code has a weight take part, and they are aligned on the
// dates every one of them has. The first aligned date is the base date: its
// portfolio return is 0 and its price equals initialCapital. Each later day's
// return is the weighted sum of the constituents' daily returns, chain-linked
// into the cumulative return. An empty list, an empty alignment or a zero
// weight total yields an empty series.
func Simulate(list []domain.Series, weights domain.WeightVector, initialCapital float64) (domain.Series, error) {
	out, _, err := SimulateHoldings(list, weights, initialCapital)
	return out, err
}

// SimulateHoldings is Simulate that also reports the weights actually held.
// Weights are renormalized over the assets present in the aligned table, so
// a weighted code without data is not carried as idle cash.
func SimulateHoldings(list []domain.Series, weights domain.WeightVector, initialCapital float64) (domain.Series, domain.WeightVector, error) {
	out := domain.Series{
		AssetCode:      domain.PortfolioAssetCode,
		AssetName:      domain.PortfolioAssetName,
		ReturnsDerived: true,
	}

	if _, err := EffectiveWeights(weights); err != nil {
		return out, nil, err
	}
	list = weighted(list, weights)
	if len(list) == 0 {
		return out, nil, nil
	}

	table := series.Align(list)
	if table.IsEmpty() {
		return out, nil, nil
	}

	present := make(domain.WeightVector, len(table.Assets))
	for _, code := range table.Assets {
		present[code] = weights[code]
	}
	held, _ := EffectiveWeights(present)
	if len(held) == 0 {
		return out, nil, nil
	}

	returns := portfolioReturns(table, held)

	growth := 1.0
	out.Rows = make([]domain.SeriesRow, len(table.Dates))
	for i, d := range table.Dates {
		r := returns[i]
		if i == 0 {
			r = 0
		}
		growth *= 1 + r
		out.Rows[i] = domain.SeriesRow{
			Date:             d,
			Price:            initialCapital * growth,
			DailyReturn:      r,
			CumulativeReturn: growth - 1,
		}
	}
	return out, held, nil
}

// weighted keeps the series whose code appears in weights, zero weights
// included.
func weighted(list []domain.Series, weights domain.WeightVector) []domain.Series {
	out := make([]domain.Series, 0, len(list))
	for _, s := range list {
		if _, ok := weights[s.AssetCode]; ok {
			out = append(out, s)
		}
	}
	return out
}

// portfolioReturns is the matrix-vector product R·w of the aligned table.
func portfolioReturns(table domain.ReturnTable, weights domain.WeightVector) []float64 {
	rows, cols := len(table.Dates), len(table.Assets)

	data := make([]float64, 0, rows*cols)
	for _, row := range table.Returns {
		data = append(data, row...)
	}
	r := mat.NewDense(rows, cols, data)

	w := make([]float64, cols)
	for j, code := range table.Assets {
		w[j] = weights[code]
	}

	var p mat.VecDense
	p.MulVec(r, mat.NewVecDense(cols, w))
	return p.RawVector().Data
}
