package nlsolve

import (
	"math"

	"golang.org/x/exp/constraints"
)

// norm returns the Euclidean length of v.
func norm[T constraints.Float](v []T) T {
	var sum T
	for _, e := range v {
		sum += e * e
	}
	return T(math.Sqrt(float64(sum)))
}

// distance returns ‖a−b‖₂.
func distance[T constraints.Float](a, b []T) T {
	var sum T
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return T(math.Sqrt(float64(sum)))
}

func negate[T constraints.Float](v []T) []T {
	out := make([]T, len(v))
	for i, e := range v {
		out[i] = -e
	}
	return out
}

func isFinite[T constraints.Float](v T) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func allFinite[T constraints.Float](v []T) bool {
	for _, e := range v {
		if !isFinite(e) {
			return false
		}
	}
	return true
}

func absMax[T constraints.Float](a, b T) T {
	a, b = T(math.Abs(float64(a))), T(math.Abs(float64(b)))
	if a > b {
		return a
	}
	return b
}
