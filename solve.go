package nlsolve

import (
	"fmt"
)

func (lu *LU) Solve(rhs []float64) (solution []float64, err error) {
	if len(rhs) != lu.Size {
		return nil, fmt.Errorf("rhs size %d does not match matrix size %d", len(rhs), lu.Size)
	}
	if !allFinite(rhs) {
		return nil, fmt.Errorf("%w: non-finite rhs", errSingular)
	}

	size := lu.Size
	elements := lu.Elements
	intermediate := make([]float64, size)

	for i := 0; i < size; i++ {
		intermediate[i] = rhs[lu.Perm[i]]
	}

	// Forward elimination - Solves Lc = b
	for i := 0; i < size; i++ {
		temp := intermediate[i]
		if temp != 0.0 {
			for row := i + 1; row < size; row++ {
				intermediate[row] -= elements[row*size+i] * temp
			}
		}
	}

	// Backward Substitution - Solves Ux = c
	solution = make([]float64, size)
	for i := size - 1; i >= 0; i-- {
		temp := intermediate[i]
		for col := i + 1; col < size; col++ {
			temp -= elements[i*size+col] * solution[col]
		}
		solution[i] = temp / elements[i*size+i]
	}

	if !allFinite(solution) {
		return nil, fmt.Errorf("%w: non-finite solution", errSingular)
	}

	return solution, nil
}

// SolveLinear solves A·x = b. A and b are left untouched.
func SolveLinear(a *Matrix, b []float64) ([]float64, error) {
	if a == nil {
		return nil, fmt.Errorf("nil matrix")
	}
	if len(b) != a.Size {
		return nil, fmt.Errorf("rhs size %d does not match matrix size %d", len(b), a.Size)
	}

	lu, err := a.Factor()
	if err != nil {
		return nil, err
	}
	return lu.Solve(b)
}
