package optimization

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/quantfolio/internal/domain"
	"github.com/aristath/quantfolio/pkg/formulas"
)

// riskModel holds the annualized inputs of the mean-variance problem.
type riskModel struct {
	mu    []float64
	sigma *mat.SymDense
}

// buildRiskModel annualizes the mean daily returns and the sample covariance
// (N-1) of an aligned return table.
func buildRiskModel(table domain.ReturnTable) riskModel {
	rows, cols := len(table.Dates), len(table.Assets)

	data := make([]float64, 0, rows*cols)
	for _, row := range table.Returns {
		data = append(data, row...)
	}
	x := mat.NewDense(rows, cols, data)

	mu := make([]float64, cols)
	for j := range mu {
		mu[j] = formulas.Mean(mat.Col(nil, j, x)) * formulas.TradingDaysPerYear
	}

	sigma := mat.NewSymDense(cols, nil)
	if rows >= 2 {
		stat.CovarianceMatrix(sigma, x, nil)
		sigma.ScaleSym(formulas.TradingDaysPerYear, sigma)
	}
	return riskModel{mu: mu, sigma: sigma}
}

func (m riskModel) assets() int { return len(m.mu) }

// portfolioReturn is μ'w.
func (m riskModel) portfolioReturn(w []float64) float64 {
	return mat.Dot(mat.NewVecDense(len(w), w), mat.NewVecDense(len(m.mu), m.mu))
}

// portfolioVariance is w'Σw.
func (m riskModel) portfolioVariance(w []float64) float64 {
	v := mat.NewVecDense(len(w), w)
	variance := mat.Inner(v, m.sigma, v)
	if variance < 0 {
		return 0
	}
	return variance
}

// portfolioVolatility is √(w'Σw).
func (m riskModel) portfolioVolatility(w []float64) float64 {
	return math.Sqrt(m.portfolioVariance(w))
}

// sharpe is return over volatility with a zero risk-free rate; 0 when the
// portfolio carries no risk.
func (m riskModel) sharpe(w []float64) float64 {
	return formulas.SafeRatio(m.portfolioReturn(w), m.portfolioVolatility(w))
}

func (m riskModel) point(w []float64) domain.PortfolioPoint {
	return domain.PortfolioPoint{
		Return:     m.portfolioReturn(w),
		Volatility: m.portfolioVolatility(w),
		Sharpe:     m.sharpe(w),
	}
}

func (m riskModel) covarianceRows() [][]float64 {
	n := m.assets()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = m.sigma.At(i, j)
		}
	}
	return out
}
