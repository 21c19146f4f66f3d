package nlsolve

import (
	"context"
	"math"
)

const (
	newtonLineSearchTrials = 8 // alpha = 1, 1/2, ..., 1/128
	armijoC1               = 1e-4
)

// dampedResidualStep sets dx = -fx scaled by 0.01/(1+‖fx‖). Used whenever the linear
// system for the step is singular.
func dampedResidualStep(fx, dx []float64) {
	stepSize := 0.01 / (1 + norm(fx))
	for i := range dx {
		dx[i] = -stepSize * fx[i]
	}
}

// lineSearch tries alpha = 1, 1/2, 1/4, ... for at most trials values and accepts the
// first one with ‖f(x+alpha·dx)‖ < ‖f(x)‖·(1−c1·alpha). When none qualifies the last
// alpha tried is accepted. It also returns the residual norm at the accepted point and
// the number of function evaluations spent.
func (s System) lineSearch(x, dx, fx []float64, trials int) (alpha, trialError float64, evaluations int) {
	n := len(x)
	currentError := norm(fx)
	xNew := make([]float64, n)
	fNew := make([]float64, n)

	alpha = 1.0
	for trial := 0; trial < trials; trial++ {
		for i := 0; i < n; i++ {
			xNew[i] = x[i] + alpha*dx[i]
		}
		s.Residuals(xNew, fNew)
		evaluations += n
		trialError = norm(fNew)

		if trialError < currentError*(1-armijoC1*alpha) || trial == trials-1 {
			return alpha, trialError, evaluations
		}
		alpha *= 0.5
	}
	return alpha, trialError, evaluations
}

// solveNewton runs Newton-Raphson with a forward-difference Jacobian from x0.
func solveNewton(ctx context.Context, sys System, x0 []float64, epsilon float64, maxIterations int, ann annotator) (SolveResult, error) {
	n := len(x0)
	st := newIterationState(x0)
	lastError := math.Inf(1)

	for iter := 0; iter < maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return SolveResult{}, cancelled(err)
		}

		sys.Residuals(st.x, st.fx)
		st.functionEvaluations += n
		st.error = norm(st.fx)

		// st.dx still holds the previous step here, zero before the first one.
		if st.error < epsilon || (iter > 5 && norm(st.dx) < epsilon*1e-4) {
			return st.result(Newton, iter+1, st.error, true), nil
		}

		jac, evaluations, err := sys.ForwardJacobian(st.x, st.fx)
		if err != nil {
			return SolveResult{}, err
		}
		st.functionEvaluations += evaluations
		st.jacobianEvaluations += n * n

		step, err := SolveLinear(jac, negate(st.fx))
		if err != nil {
			dampedResidualStep(st.fx, st.dx)
			ann.strange(iter, "singular jacobian, taking damped residual step", err)
		} else {
			copy(st.dx, step)
		}

		alpha, trialError, evaluations := sys.lineSearch(st.x, st.dx, st.fx, newtonLineSearchTrials)
		st.functionEvaluations += evaluations
		for i := 0; i < n; i++ {
			st.x[i] += alpha * st.dx[i]
		}
		lastError = trialError
		ann.writeStatus(iter, st, alpha)

		if iter > 10 && norm(st.dx) < epsilon*1e-3 {
			return st.result(Newton, iter+1, lastError, lastError < epsilon*10), nil
		}
	}

	return st.result(Newton, maxIterations, lastError, lastError < epsilon), nil
}
