// Package optimization builds the constrained Markowitz efficient frontier of
// a set of assets: the maximum-Sharpe and minimum-volatility portfolios, the
// frontier curve between them and a cloud of random portfolios for context.
package optimization

import (
	"math/rand/v2"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aristath/quantfolio/internal/domain"
	"github.com/aristath/quantfolio/internal/modules/series"
)

// Options configures a FrontierOptimizer.
type Options struct {
	// Seed drives the random cloud; 0 seeds from the clock.
	Seed           uint64
	CloudSize      int
	FrontierPoints int
	MinWeight      float64
	MaxWeight      float64
}

// DefaultOptions returns the standard frontier settings.
func DefaultOptions() Options {
	return Options{
		CloudSize:      2000,
		FrontierPoints: 30,
		MinWeight:      0.02,
		MaxWeight:      0.60,
	}
}

// FrontierOptimizer computes efficient frontiers.
type FrontierOptimizer struct {
	opts Options
}

// NewFrontierOptimizer creates an optimizer, filling unset options with the
// defaults.
func NewFrontierOptimizer(opts Options) *FrontierOptimizer {
	def := DefaultOptions()
	if opts.CloudSize <= 0 {
		opts.CloudSize = def.CloudSize
	}
	if opts.FrontierPoints <= 0 {
		opts.FrontierPoints = def.FrontierPoints
	}
	if opts.MinWeight <= 0 && opts.MaxWeight <= 0 {
		opts.MinWeight, opts.MaxWeight = def.MinWeight, def.MaxWeight
	}
	return &FrontierOptimizer{opts: opts}
}

// Options returns the effective settings.
func (fo *FrontierOptimizer) Options() Options { return fo.opts }

// Optimize computes the frontier of the series in list selected by codes.
// It returns nil when fewer than two of the codes have data or the selected
// series share no dates.
func (fo *FrontierOptimizer) Optimize(list []domain.Series, codes []string) *domain.FrontierResult {
	selected := series.Filter(list, codes)
	if len(selected) < 2 {
		return nil
	}
	table := series.Align(selected)
	if table.IsEmpty() || len(table.Assets) < 2 {
		return nil
	}

	model := buildRiskModel(table)
	mvo := newMVOptimizer(model, Bounds{Min: fo.opts.MinWeight, Max: fo.opts.MaxWeight})

	result := &domain.FrontierResult{
		Assets:         table.Assets,
		MeanReturns:    model.mu,
		CovarianceRows: model.covarianceRows(),
	}

	w, ok := mvo.MaxSharpe()
	result.MaxSharpe = optimal(model, table.Assets, w, ok)
	w, ok = mvo.MinVolatility()
	result.MinVolatility = optimal(model, table.Assets, w, ok)

	result.FrontierCurve = fo.frontierCurve(mvo, table.Assets, result.MinVolatility.Return)
	result.RandomCloud = fo.randomCloud(model)
	return result
}

func optimal(model riskModel, assets []string, w []float64, converged bool) domain.OptimalPortfolio {
	return domain.OptimalPortfolio{
		Weights:        weightVector(assets, w),
		PortfolioPoint: model.point(w),
		Converged:      converged,
	}
}

func weightVector(assets []string, w []float64) domain.WeightVector {
	out := make(domain.WeightVector, len(assets))
	for i, code := range assets {
		out[code] = w[i]
	}
	return out
}

// frontierCurve solves the return targets spaced evenly between the
// minimum-volatility return and the highest single-asset return. Targets the
// bounded portfolio cannot reach are left out, as are dominated points.
func (fo *FrontierOptimizer) frontierCurve(mvo *MVOptimizer, assets []string, minVolReturn float64) []domain.FrontierPoint {
	maxReturn := mvo.model.mu[0]
	for _, m := range mvo.model.mu[1:] {
		if m > maxReturn {
			maxReturn = m
		}
	}
	targets := linspace(minVolReturn, maxReturn, fo.opts.FrontierPoints)

	slots := make([]*domain.FrontierPoint, len(targets))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, target := range targets {
		g.Go(func() error {
			w, ok := mvo.EfficientReturn(target)
			if !ok {
				return nil
			}
			slots[i] = &domain.FrontierPoint{
				Weights:      weightVector(assets, w),
				TargetReturn: target,
				Return:       mvo.model.portfolioReturn(w),
				Volatility:   mvo.model.portfolioVolatility(w),
			}
			return nil
		})
	}
	_ = g.Wait()

	points := make([]domain.FrontierPoint, 0, len(slots))
	for _, p := range slots {
		if p != nil {
			points = append(points, *p)
		}
	}
	return dropDominated(points)
}

// dropDominated keeps the points no other point beats on both return and
// volatility, ordered by ascending return.
func dropDominated(points []domain.FrontierPoint) []domain.FrontierPoint {
	sort.Slice(points, func(i, j int) bool {
		if points[i].Return != points[j].Return {
			return points[i].Return > points[j].Return
		}
		return points[i].Volatility < points[j].Volatility
	})

	kept := make([]domain.FrontierPoint, 0, len(points))
	for _, p := range points {
		if len(kept) > 0 && p.Volatility >= kept[len(kept)-1].Volatility {
			continue
		}
		kept = append(kept, p)
	}

	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}

// randomCloud samples unconstrained long-only portfolios: uniform draws
// normalized to sum to 1.
func (fo *FrontierOptimizer) randomCloud(model riskModel) []domain.PortfolioPoint {
	seed := fo.opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	n := model.assets()
	cloud := make([]domain.PortfolioPoint, fo.opts.CloudSize)
	w := make([]float64, n)
	for k := range cloud {
		total := 0.0
		for i := range w {
			w[i] = rng.Float64()
			total += w[i]
		}
		if total == 0 {
			for i := range w {
				w[i] = 1
			}
			total = float64(n)
		}
		for i := range w {
			w[i] /= total
		}
		cloud[k] = model.point(w)
	}
	return cloud
}

func linspace(from, to float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{from}
	}
	out := make([]float64, n)
	step := (to - from) / float64(n-1)
	for i := range out {
		out[i] = from + step*float64(i)
	}
	out[n-1] = to
	return out
}
