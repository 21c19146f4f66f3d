package nlsolve

import (
	"fmt"
)

// Factor runs Gaussian elimination with partial pivoting on a private copy of m.
// m itself is never modified.
func (m *Matrix) Factor() (*LU, error) {
	if m == nil || m.Size <= 0 {
		return nil, fmt.Errorf("invalid matrix")
	}
	if !m.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite entry", errSingular)
	}

	size := m.Size
	lu := &LU{
		Size:        size,
		Elements:    make([]float64, len(m.Elements)),
		Perm:        make([]int, size),
		SingularRow: -1,
	}
	copy(lu.Elements, m.Elements)
	for i := range lu.Perm {
		lu.Perm[i] = i
	}

	for step := 0; step < size; step++ {
		row, _ := lu.FindBiggestInCol(step)
		lu.rowExchange(step, row)

		if err := lu.RealRowColElimination(step); err != nil {
			return nil, err
		}
	}

	return lu, nil
}

// Determinant of the factored matrix.
func (lu *LU) Determinant() float64 {
	det := 1.0
	for i := 0; i < lu.Size; i++ {
		det *= lu.Elements[i*lu.Size+i]
	}
	if lu.NumberOfInterchangesIsOdd {
		det = -det
	}
	return det
}
