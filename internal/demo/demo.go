// Package demo generates random equation systems for demonstrations. Every function
// takes its generator explicitly so a seed reproduces the same system.
package demo

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"nlsolve"
)

// GenerateSystem returns n equations built around a random true solution in [-2, 2):
// a linear term, a cross term with another variable, a quadratic term and a constant
// that nearly cancels them at the true solution.
func GenerateSystem(rng *rand.Rand, n int) ([]string, error) {
	if n < nlsolve.MinUnknowns || n > nlsolve.MaxUnknowns {
		return nil, fmt.Errorf("number of equations must be between %d and %d, got %d",
			nlsolve.MinUnknowns, nlsolve.MaxUnknowns, n)
	}

	truth := make([]float64, n)
	for i := range truth {
		truth[i] = rng.Float64()*4 - 2
	}

	equations := make([]string, n)
	for i := range equations {
		equations[i] = buildEquation(rng, i, n, truth)
	}
	return equations, nil
}

// InitialGuess returns n values in [-0.75, 0.75).
func InitialGuess(rng *rand.Rand, n int) []float64 {
	guess := make([]float64, n)
	for i := range guess {
		guess[i] = rng.Float64()*1.5 - 0.75
	}
	return guess
}

func buildEquation(rng *rand.Rand, i, n int, truth []float64) string {
	var sb strings.Builder
	constant := 0.0

	sign := 1.0
	if rng.Intn(2) != 0 {
		sign = -1.0
	}
	a := (rng.Float64()*3 + 0.5) * sign
	fmt.Fprintf(&sb, "%s*%s", formatNumber(rng, a), varName(i))
	constant += a * truth[i]

	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	b := (rng.Float64()*2 - 1) * 1.5
	fmt.Fprintf(&sb, " + %s*%s*%s", formatNumber(rng, b), varName(i), varName(j))
	constant += b * truth[i] * truth[j]

	d := rng.Float64() * 2
	fmt.Fprintf(&sb, " + %s*%s*%s", formatNumber(rng, d), varName(i), varName(i))
	constant += d * truth[i] * truth[i]

	c := -constant + (rng.Float64()*0.4 - 0.2)
	if c < 0 {
		fmt.Fprintf(&sb, " - %s", formatNumber(rng, math.Abs(c)))
	} else {
		fmt.Fprintf(&sb, " + %s", formatNumber(rng, c))
	}

	sb.WriteString(" = 0")
	return sb.String()
}

// formatNumber prints v with 2 to 7 decimals; negative values become "(-v)".
func formatNumber(rng *rand.Rand, v float64) string {
	decimals := 2 + rng.Intn(6)
	s := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)
	if v < 0 {
		return "(-" + s + ")"
	}
	return s
}

func varName(i int) string {
	return "x" + strconv.Itoa(i+1)
}
