package nlsolve

import (
	"context"
	"math"
)

const (
	broydenLineSearchTrials = 5
	maxStalls               = 10
)

// broydenUpdate applies B += ((y − B·s)·sᵗ)/‖s‖² with s = x−xPrev and y = fx−fxPrev.
// B is owned by the caller's iteration loop and is modified in place.
func broydenUpdate(b *Matrix, x, xPrev, fx, fxPrev []float64) {
	n := b.Size
	s := make([]float64, n)
	y := make([]float64, n)
	sNormSq := 0.0
	for i := 0; i < n; i++ {
		s[i] = x[i] - xPrev[i]
		y[i] = fx[i] - fxPrev[i]
	}
	for i := 0; i < n; i++ {
		sNormSq += s[i] * s[i]
	}
	if sNormSq < 1e-16 {
		return
	}

	bs := b.multiply(s)
	for i := 0; i < n; i++ {
		r := y[i] - bs[i]
		for j := 0; j < n; j++ {
			b.Elements[i*n+j] += r * s[j] / sNormSq
		}
	}
}

// solveBroyden runs the quasi-Newton iteration with rank-one secant updates from x0.
func solveBroyden(ctx context.Context, sys System, x0 []float64, epsilon float64, maxIterations int, ann annotator) (SolveResult, error) {
	n := len(x0)
	st := newIterationState(x0)

	xPrev := make([]float64, n)
	for i := range xPrev {
		xPrev[i] = x0[i] + 0.001*float64(i+1)
	}
	fxPrev := make([]float64, n)
	sys.Residuals(st.x, st.fx)
	sys.Residuals(xPrev, fxPrev)
	st.functionEvaluations += 2 * n

	b, err := Create(n)
	if err != nil {
		return SolveResult{}, err
	}
	b.SetIdentity()
	updateApproximateJacobian(b, st.x, xPrev, st.fx, fxPrev, ann, -1)

	prevError := norm(st.fx)
	stalls := 0

	for iter := 0; iter < maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return SolveResult{}, cancelled(err)
		}

		st.error = norm(st.fx)
		if st.error < epsilon {
			return st.result(Secant, iter+1, st.error, true), nil
		}

		if math.Abs(st.error-prevError) < epsilon*1e-3 {
			stalls++
			if stalls > maxStalls {
				for i := 0; i < n; i++ {
					st.x[i] = (st.x[i] + xPrev[i]) / 2.0
				}
				sys.Residuals(st.x, st.fx)
				st.functionEvaluations += n
				stalls = 0
				ann.strange(iter, "stalled, restarting from midpoint of last two iterates", nil)
			}
		} else {
			stalls = 0
		}
		prevError = st.error

		step, err := SolveLinear(b, negate(st.fx))
		if err != nil {
			dampedResidualStep(st.fx, st.dx)
			b.SetIdentity()
			ann.strange(iter, "singular approximate jacobian, reset to identity", err)
		} else {
			copy(st.dx, step)
		}

		if stepNorm := norm(st.dx); stepNorm > 1.0 {
			scale := 1.0 / stepNorm
			for i := range st.dx {
				st.dx[i] *= scale
			}
		}

		alpha, _, evaluations := sys.lineSearch(st.x, st.dx, st.fx, broydenLineSearchTrials)
		st.functionEvaluations += evaluations

		copy(xPrev, st.x)
		copy(fxPrev, st.fx)
		for i := 0; i < n; i++ {
			st.x[i] += alpha * st.dx[i]
		}
		sys.Residuals(st.x, st.fx)
		st.functionEvaluations += n
		ann.writeStatus(iter, st, alpha)

		xChange := distance(st.x, xPrev)
		if xChange > epsilon*1e-2 {
			updateApproximateJacobian(b, st.x, xPrev, st.fx, fxPrev, ann, iter)
		}

		if iter > 5 && xChange < epsilon*1e-4 {
			finalError := norm(st.fx)
			return st.result(Secant, iter+1, finalError, finalError < epsilon*10), nil
		}
	}

	finalError := norm(st.fx)
	return st.result(Secant, maxIterations, finalError, finalError < epsilon), nil
}

// updateApproximateJacobian applies the rank-one update and falls back to the identity
// if the update leaves a non-finite entry.
func updateApproximateJacobian(b *Matrix, x, xPrev, fx, fxPrev []float64, ann annotator, iter int) {
	broydenUpdate(b, x, xPrev, fx, fxPrev)
	if !b.IsFinite() {
		b.SetIdentity()
		ann.strange(iter, "non-finite approximate jacobian, reset to identity", nil)
	}
}
