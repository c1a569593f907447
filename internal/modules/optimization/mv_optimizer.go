package optimization

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

// returnPenalty weights the squared miss of a frontier return target.
const returnPenalty = 1e4

// ReturnTolerance is the largest accepted miss of a frontier return target.
const ReturnTolerance = 1e-4

// accepted solver outcomes
var convergedStatuses = map[optimize.Status]bool{
	optimize.Success:             true,
	optimize.GradientThreshold:   true,
	optimize.FunctionConvergence: true,
	optimize.MethodConverge:      true,
	optimize.StepConvergence:     true,
}

// MVOptimizer solves mean-variance problems over the capped simplex.
//
// Every objective is evaluated at the projection P(x) of the solver's iterate
// onto {Σw = 1, Min ≤ w ≤ Max}, plus ½‖x − P(x)‖² so the iterate stays close to
// the feasible set. Returned weights are always P(x*) and therefore feasible.
type MVOptimizer struct {
	model  riskModel
	bounds Bounds
}

func newMVOptimizer(model riskModel, bounds Bounds) *MVOptimizer {
	return &MVOptimizer{model: model, bounds: feasibleBounds(model.assets(), bounds)}
}

// equalWeights is the projected 1/n vector used as the starting point and
// as the fallback when a solve fails.
func (mvo *MVOptimizer) equalWeights() []float64 {
	n := mvo.model.assets()
	x := make([]float64, n)
	for i := range x {
		x[i] = 1.0 / float64(n)
	}
	return projectToSimplex(x, mvo.bounds)
}

// MaxSharpe maximizes μ'w / √(w'Σw).
func (mvo *MVOptimizer) MaxSharpe() ([]float64, bool) {
	return mvo.solve(func(w []float64) float64 {
		return -mvo.model.sharpe(w)
	})
}

// MinVolatility minimizes √(w'Σw).
func (mvo *MVOptimizer) MinVolatility() ([]float64, bool) {
	return mvo.solve(mvo.model.portfolioVolatility)
}

// EfficientReturn minimizes w'Σw with the return pinned to target by a
// quadratic penalty. ok is false when the solver failed or the achieved
// return misses the target by more than ReturnTolerance.
func (mvo *MVOptimizer) EfficientReturn(target float64) (weights []float64, ok bool) {
	w, converged := mvo.solve(func(w []float64) float64 {
		miss := mvo.model.portfolioReturn(w) - target
		return mvo.model.portfolioVariance(w) + returnPenalty*miss*miss
	})
	if !converged {
		return w, false
	}
	return w, math.Abs(mvo.model.portfolioReturn(w)-target) <= ReturnTolerance
}

// solve minimizes objective over the feasible set, trying BFGS with
// finite-difference gradients first and Nelder-Mead second. When neither
// converges it returns the equal-weight vector and false.
func (mvo *MVOptimizer) solve(objective func(w []float64) float64) ([]float64, bool) {
	initial := mvo.equalWeights()
	if len(initial) == 0 {
		return initial, false
	}

	f := func(x []float64) float64 {
		w := projectToSimplex(x, mvo.bounds)
		v := objective(w) + 0.5*distanceSquared(x, w)
		if math.IsNaN(v) {
			return math.Inf(1)
		}
		return v
	}
	problem := optimize.Problem{
		Func: f,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, f, x, nil)
		},
	}

	for _, method := range []optimize.Method{&optimize.BFGS{}, &optimize.NelderMead{}} {
		result, err := optimize.Minimize(problem, initial, &optimize.Settings{}, method)
		if err != nil || result == nil || !convergedStatuses[result.Status] {
			continue
		}
		w := projectToSimplex(result.X, mvo.bounds)
		// never accept a solve that ends worse than its starting point
		if objective(w) > objective(initial)+1e-12 {
			continue
		}
		return w, true
	}
	return initial, false
}
