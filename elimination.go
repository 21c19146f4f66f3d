package nlsolve

import (
	"fmt"
	"math"
)

// RealRowColElimination eliminates column step below the pivot. The multipliers are
// kept in place of the eliminated entries so Solve can replay them on a right-hand side.
func (lu *LU) RealRowColElimination(step int) error {
	n := lu.Size
	pivot := lu.Elements[step*n+step]
	if math.Abs(pivot) < PivotThreshold {
		lu.SingularRow = step
		return fmt.Errorf("%w: pivot %g at step %d", errSingular, pivot, step)
	}

	pUpper := lu.Elements[step*n : (step+1)*n]
	for row := step + 1; row < n; row++ {
		pLower := lu.Elements[row*n : (row+1)*n]
		factor := pLower[step] / pivot
		pLower[step] = factor
		for col := step + 1; col < n; col++ {
			pLower[col] -= factor * pUpper[col]
		}
	}

	return nil
}
