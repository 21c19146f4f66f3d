package nlsolve

import (
	"math"
)

const machineEpsilon = 2.220446049250313e-16

// Residuals evaluates every equation at x into fx.
func (s System) Residuals(x, fx []float64) {
	for i, f := range s {
		fx[i] = f(x)
	}
}

// differenceStep picks the forward-difference step for a coordinate of value v.
func differenceStep(v float64) float64 {
	h := math.Cbrt(machineEpsilon) * absMax(v, 1.0)
	return math.Max(h, 1e-8)
}

// ForwardJacobian estimates ∂f_i/∂x_j by forward differences around x, where fx holds
// the residuals at x. It costs n² evaluations, returned with the matrix.
func (s System) ForwardJacobian(x, fx []float64) (*Matrix, int, error) {
	n := len(x)
	jac, err := Create(n)
	if err != nil {
		return nil, 0, err
	}

	xPlus := make([]float64, n)
	copy(xPlus, x)
	fPlus := make([]float64, n)
	evaluations := 0

	for j := 0; j < n; j++ {
		h := differenceStep(x[j])
		xPlus[j] = x[j] + h
		s.Residuals(xPlus, fPlus)
		evaluations += n
		for i := 0; i < n; i++ {
			jac.Set(i, j, (fPlus[i]-fx[i])/h)
		}
		xPlus[j] = x[j]
	}

	return jac, evaluations, nil
}
