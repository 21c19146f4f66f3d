package nlsolve

import (
	"fmt"
	"math"
)

const (
	lineSearchEvals = 6 // average line-search evaluations assumed per iteration
	bytesPerFloat   = 8
)

// broydenOverhead is truncated to a whole number when counting operations.
var broydenOverhead = 1.5

// CostEstimate holds closed-form cost figures for display. It plays no part in solving.
type CostEstimate struct {
	SystemSize   int    `json:"system_size"`
	Iterations   int    `json:"iterations"`
	Method       string `json:"method"`
	UpdatePeriod int    `json:"update_period"`

	TimeComplexity      float64 `json:"time_complexity"`
	TimeNotation        string  `json:"time_notation"`
	EstimatedOperations int64   `json:"estimated_operations"`

	SpaceComplexity      float64 `json:"space_complexity"`
	SpaceNotation        string  `json:"space_notation"`
	EstimatedMemoryBytes int64   `json:"estimated_memory_bytes"`
}

// EstimateCost returns the theoretical cost of iterations steps of method on an n-unknown
// system. updatePeriod is how often an expensive O(n³) refactorization is assumed to happen;
// it only shapes the report, and Newton always reports 1.
func EstimateCost(n, iterations int, method Method, updatePeriod int) (CostEstimate, error) {
	if n < MinUnknowns || n > MaxUnknowns {
		return CostEstimate{}, invalidf("system size", "%d not in [%d, %d]", n, MinUnknowns, MaxUnknowns)
	}
	if iterations <= 0 {
		return CostEstimate{}, invalidf("iterations", "%d must be positive", iterations)
	}
	if updatePeriod <= 0 {
		return CostEstimate{}, invalidf("update period", "%d must be positive", updatePeriod)
	}

	est := CostEstimate{
		SystemSize:   n,
		Iterations:   iterations,
		Method:       method.String(),
		UpdatePeriod: updatePeriod,
	}

	k := int64(iterations)
	nn := int64(n)
	lineSearchCost := k * nn * lineSearchEvals
	baseMemory := (nn*nn + 4*nn) * bytesPerFloat

	switch method {
	case Newton:
		est.UpdatePeriod = 1
		numUpdates := k

		funcEvals := k * nn
		jacobianCost := k * nn * nn
		gaussianCost := numUpdates * nn * nn * nn
		est.EstimatedOperations = funcEvals + jacobianCost + gaussianCost + lineSearchCost
		est.TimeComplexity = float64(k)*math.Pow(float64(n), 3) + float64(lineSearchCost)
		est.TimeNotation = fmt.Sprintf("O(k n³ + k n (ls=%d)) ≈ O(%d n³ + %d n)",
			lineSearchEvals, k, k*lineSearchEvals)
		est.EstimatedMemoryBytes = baseMemory

	case Secant:
		numUpdates := int64(math.Ceil(float64(iterations) / float64(updatePeriod)))

		baseEvals := k * nn * 2
		broydenSolve := numUpdates * nn * nn * nn
		updateCost := k * nn * nn * int64(broydenOverhead)
		est.EstimatedOperations = baseEvals + broydenSolve + updateCost + lineSearchCost
		est.TimeComplexity = float64(k*nn*nn) +
			float64(k)*math.Pow(float64(n), 3)/float64(updatePeriod) +
			float64(lineSearchCost)
		est.TimeNotation = fmt.Sprintf("O(k n² (Broyden) + (k/p) n³ + k n (ls=%d)) ≈ O(%d n² + %d n³ + %d n)",
			lineSearchEvals, k, numUpdates, k*lineSearchEvals)
		est.EstimatedMemoryBytes = baseMemory + 2*nn*nn*bytesPerFloat

	default:
		return CostEstimate{}, invalidf("method", "unknown method %d", int(method))
	}

	est.SpaceComplexity = float64(n * n)
	est.SpaceNotation = fmt.Sprintf("O(n²) = O(%d²) = O(%d)", n, n*n)

	return est, nil
}
