// Package analytics composes the normalizer, metric calculator, simulator,
// optimizer, VaR estimator, Monte Carlo projector and inflation adjuster into
// the request-level operations exposed over HTTP.
package analytics

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/quantfolio/internal/config"
	"github.com/aristath/quantfolio/internal/domain"
	"github.com/aristath/quantfolio/internal/modules/inflation"
	"github.com/aristath/quantfolio/internal/modules/metrics"
	"github.com/aristath/quantfolio/internal/modules/montecarlo"
	"github.com/aristath/quantfolio/internal/modules/optimization"
	"github.com/aristath/quantfolio/internal/modules/portfolio"
	"github.com/aristath/quantfolio/internal/modules/risk"
	"github.com/aristath/quantfolio/internal/modules/series"
	"github.com/aristath/quantfolio/internal/utils"
)

// AssetMetrics is the risk profile of one asset.
type AssetMetrics struct {
	AssetCode string              `json:"asset_code"`
	AssetName string              `json:"asset_name"`
	Metrics   *domain.RiskMetrics `json:"metrics"`
}

// AssetPeriodReturns is the trailing-return table of one asset.
type AssetPeriodReturns struct {
	AssetCode string               `json:"asset_code"`
	AssetName string               `json:"asset_name"`
	Returns   domain.PeriodReturns `json:"returns"`
}

// SimulationResult is a simulated portfolio with its own risk profile.
type SimulationResult struct {
	Portfolio domain.Series       `json:"portfolio"`
	Weights   domain.WeightVector `json:"weights"`
	Metrics   *domain.RiskMetrics `json:"metrics"`
}

// PortfolioSpec describes a portfolio to simulate: the weights over the
// supplied series and the capital it starts from (0 uses the configured
// default).
type PortfolioSpec struct {
	Weights        domain.WeightVector
	InitialCapital float64
}

// Service runs analytics over in-memory price data.
type Service struct {
	cfg config.EngineConfig
	log zerolog.Logger
}

// NewService creates a new analytics service
func NewService(cfg config.EngineConfig, log zerolog.Logger) *Service {
	return &Service{
		cfg: cfg,
		log: log.With().Str("service", "analytics").Logger(),
	}
}

// Normalize cleans raw rows and splits them into one series per asset.
func (s *Service) Normalize(raw []domain.RawObservation) []domain.Series {
	obs := series.Normalize(raw)
	if dropped := len(raw) - len(obs); dropped > 0 {
		s.log.Debug().
			Int("dropped", dropped).
			Int("kept", len(obs)).
			Msg("Dropped malformed price rows")
	}
	return series.Split(obs)
}

// Returns normalizes raw rows and derives the return columns of every asset.
func (s *Service) Returns(raw []domain.RawObservation) []domain.Series {
	return series.DeriveAll(s.Normalize(raw))
}

// Metrics computes the risk profile of every asset. When benchmarkCode names
// a supplied asset, the benchmark-relative block is attached to the others.
func (s *Service) Metrics(raw []domain.RawObservation, benchmarkCode string) []AssetMetrics {
	list := s.Returns(raw)

	var benchmark *domain.Series
	if benchmarkCode != "" {
		if found := series.Filter(list, []string{benchmarkCode}); len(found) == 1 {
			benchmark = &found[0]
		} else {
			s.log.Debug().Str("benchmark", benchmarkCode).Msg("Benchmark not found in observations")
		}
	}

	out := make([]AssetMetrics, 0, len(list))
	for _, a := range list {
		var m *domain.RiskMetrics
		if benchmark != nil && a.AssetCode != benchmark.AssetCode {
			m = metrics.RiskWithBenchmark(a, *benchmark)
		} else {
			m = metrics.Risk(a)
		}
		if m == nil {
			s.log.Debug().Str("asset", a.AssetCode).Int("rows", a.Len()).Msg("Insufficient data for risk metrics")
		}
		out = append(out, AssetMetrics{AssetCode: a.AssetCode, AssetName: a.AssetName, Metrics: m})
	}
	return out
}

// PeriodReturns computes trailing returns for every asset.
func (s *Service) PeriodReturns(raw []domain.RawObservation) []AssetPeriodReturns {
	list := s.Normalize(raw)
	out := make([]AssetPeriodReturns, 0, len(list))
	for _, a := range list {
		out = append(out, AssetPeriodReturns{
			AssetCode: a.AssetCode,
			AssetName: a.AssetName,
			Returns:   metrics.PeriodReturns(a),
		})
	}
	return out
}

// Correlation computes the correlation matrix of the assets in codes, or of
// every asset when codes is empty.
func (s *Service) Correlation(raw []domain.RawObservation, codes []string) domain.CorrelationMatrix {
	list := s.Returns(raw)
	if len(codes) > 0 {
		list = series.Filter(list, codes)
	}
	table := series.Align(list)
	if table.IsEmpty() {
		s.log.Debug().Int("assets", len(list)).Msg("No common dates for correlation")
	}
	return metrics.Correlation(table)
}

// Compare rebases assetCode against benchmarkCode. It returns nil when either
// is missing or they share no dates.
func (s *Service) Compare(raw []domain.RawObservation, assetCode, benchmarkCode string) []domain.ComparisonRow {
	found := series.Filter(s.Normalize(raw), []string{assetCode, benchmarkCode})
	if len(found) != 2 {
		s.log.Debug().Str("asset", assetCode).Str("benchmark", benchmarkCode).Msg("Comparison needs both series")
		return nil
	}
	return metrics.CompareToBenchmark(found[0], found[1])
}

// Simulate builds the weighted portfolio series and its risk profile.
func (s *Service) Simulate(raw []domain.RawObservation, spec PortfolioSpec) (*SimulationResult, error) {
	p, held, err := s.simulate(raw, spec)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, nil
	}

	return &SimulationResult{
		Portfolio: p,
		Weights:   held,
		Metrics:   metrics.Risk(p),
	}, nil
}

// Frontier computes the efficient frontier of the assets in codes. seed
// overrides the configured seed when non-zero.
func (s *Service) Frontier(raw []domain.RawObservation, codes []string, seed uint64) *domain.FrontierResult {
	if seed == 0 {
		seed = s.cfg.Seed
	}
	fo := optimization.NewFrontierOptimizer(optimization.Options{
		Seed:      seed,
		CloudSize: s.cfg.FrontierRandomPortfolios,
	})

	stop := utils.OperationTimer("efficient_frontier", s.log)
	result := fo.Optimize(s.Returns(raw), codes)
	stop(map[string]interface{}{"assets": len(codes)})
	if result == nil {
		s.log.Debug().Strs("codes", codes).Msg("Insufficient data for efficient frontier")
		return nil
	}
	if !result.MaxSharpe.Converged {
		s.log.Warn().Strs("codes", codes).Msg("Max-Sharpe solve did not converge, using equal weights")
	}
	if !result.MinVolatility.Converged {
		s.log.Warn().Strs("codes", codes).Msg("Min-volatility solve did not converge, using equal weights")
	}
	s.log.Debug().
		Int("frontier_points", len(result.FrontierCurve)).
		Int("cloud", len(result.RandomCloud)).
		Msg("Efficient frontier computed")
	return result
}

// ValueAtRisk estimates the one-day VaR of the portfolio at each confidence
// level. An empty confidences list evaluates 95% and 99%.
func (s *Service) ValueAtRisk(raw []domain.RawObservation, spec PortfolioSpec, confidences []float64) ([]domain.VaRResult, error) {
	p, _, err := s.simulate(raw, spec)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, nil
	}

	if len(confidences) == 0 {
		confidences = []float64{risk.Confidence95, risk.Confidence99}
	}
	capital := s.capital(spec)

	out := make([]domain.VaRResult, 0, len(confidences))
	for _, c := range confidences {
		if v := risk.ValueAtRisk(p, capital, c); v != nil {
			out = append(out, *v)
		}
	}
	return out, nil
}

// MonteCarlo projects the portfolio forward from its last value. Zero days
// or sims use the configured defaults; seed overrides the configured seed
// when non-zero.
func (s *Service) MonteCarlo(raw []domain.RawObservation, spec PortfolioSpec, days, sims int, seed uint64) (*domain.MonteCarloPaths, error) {
	p, _, err := s.simulate(raw, spec)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, nil
	}

	if days == 0 {
		days = s.cfg.MonteCarloDays
	}
	if sims == 0 {
		sims = s.cfg.MonteCarloSimulations
	}
	if seed == 0 {
		seed = s.cfg.Seed
	}

	start := p.Rows[len(p.Rows)-1].Price
	stop := utils.OperationTimer("monte_carlo", s.log)
	paths := montecarlo.NewProjector(seed).Project(p, start, days, sims)
	stop(map[string]interface{}{"days": days, "simulations": sims})
	if paths == nil {
		s.log.Debug().Int("days", days).Int("simulations", sims).Msg("Monte Carlo projection skipped")
	}
	return paths, nil
}

// RealReturns simulates the portfolio and deflates its cumulative return by
// the monthly inflation rates.
func (s *Service) RealReturns(raw []domain.RawObservation, spec PortfolioSpec, rates []domain.InflationObservation) (*domain.Series, error) {
	p, _, err := s.simulate(raw, spec)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, nil
	}
	if len(rates) == 0 {
		s.log.Debug().Msg("No inflation rates supplied, returning nominal series")
	}

	adjusted := inflation.AdjustForInflation(p, rates)
	return &adjusted, nil
}

func (s *Service) simulate(raw []domain.RawObservation, spec PortfolioSpec) (domain.Series, domain.WeightVector, error) {
	codes := make([]string, 0, len(spec.Weights))
	for code := range spec.Weights {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	list := series.Filter(s.Returns(raw), codes)
	p, held, err := portfolio.SimulateHoldings(list, spec.Weights, s.capital(spec))
	if err != nil {
		return p, nil, fmt.Errorf("failed to simulate portfolio: %w", err)
	}
	if p.IsEmpty() {
		s.log.Debug().
			Int("assets", len(list)).
			Int("weights", len(spec.Weights)).
			Msg("Portfolio simulation produced no rows")
	}
	return p, held, nil
}

func (s *Service) capital(spec PortfolioSpec) float64 {
	if spec.InitialCapital > 0 {
		return spec.InitialCapital
	}
	return s.cfg.DefaultInitialCapital
}
