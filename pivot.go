package nlsolve

import (
	"math"
)

// FindBiggestInCol returns the row at or below step whose entry in column step has the
// largest magnitude. The earliest row wins ties.
func (lu *LU) FindBiggestInCol(step int) (int, float64) {
	n := lu.Size
	row := step
	largest := math.Abs(lu.Elements[step*n+step])

	for k := step + 1; k < n; k++ {
		magnitude := math.Abs(lu.Elements[k*n+step])
		if magnitude > largest {
			largest = magnitude
			row = k
		}
	}

	return row, largest
}
