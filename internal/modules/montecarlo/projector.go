// Package montecarlo projects a portfolio's value forward with geometric
// Brownian motion calibrated on its daily returns.
package montecarlo

import (
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/quantfolio/internal/domain"
	"github.com/aristath/quantfolio/internal/modules/series"
	"github.com/aristath/quantfolio/pkg/formulas"
)

// Projector draws GBM paths. Paths depend only on the seed, the path index
// and the inputs, so a fixed seed reproduces a projection exactly however the
// paths are scheduled.
type Projector struct {
	seed uint64
}

// NewProjector creates a projector. A zero seed draws a fresh seed from the
// clock on every projection.
func NewProjector(seed uint64) *Projector {
	return &Projector{seed: seed}
}

// Project simulates sims paths of days values each, starting from start on
// the first calendar day after the portfolio's last date.
//
// With μ and σ the mean and sample standard deviation of the daily returns,
// every step multiplies the value by exp((μ − σ²/2) + σZ), Z ~ N(0, 1). The
// first projected day carries start itself. It returns nil for an empty
// portfolio or non-positive days or sims.
func (p *Projector) Project(portfolio domain.Series, start float64, days, sims int) *domain.MonteCarloPaths {
	if portfolio.IsEmpty() || days <= 0 || sims <= 0 {
		return nil
	}
	portfolio = series.EnsureReturns(portfolio)
	daily := formulas.Sanitize(portfolio.DailyReturns())

	mu := formulas.Mean(daily)
	sigma := formulas.StdDev(daily)
	drift := mu - 0.5*sigma*sigma

	out := &domain.MonteCarloPaths{
		Dates:         make([]time.Time, days),
		Paths:         make([][]float64, sims),
		StartingValue: start,
		MeanReturn:    mu,
		Drift:         drift,
		Volatility:    sigma,
	}
	last := portfolio.LastDate()
	for i := range out.Dates {
		out.Dates[i] = last.AddDate(0, 0, i+1)
	}

	seed := p.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k := range out.Paths {
		g.Go(func() error {
			out.Paths[k] = simulatePath(seed, uint64(k), start, drift, sigma, days)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func simulatePath(seed, index uint64, start, drift, sigma float64, days int) []float64 {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, index)}

	path := make([]float64, days)
	path[0] = start
	for i := 1; i < days; i++ {
		path[i] = path[i-1] * math.Exp(drift+sigma*normal.Rand())
	}
	return path
}
