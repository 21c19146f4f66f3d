package nlsolve

import (
	"go.uber.org/zap"
)

const (
	MinUnknowns = 2
	MaxUnknowns = 10

	MinEpsilon       float64 = 1e-8
	MaxEpsilon       float64 = 1e-2
	MinMaxIterations int     = 10
	MaxMaxIterations int     = 10000

	DefaultEpsilon       float64 = 1e-6
	DefaultMaxIterations int     = 1000
	DefaultUpdatePeriod  int     = 5

	PivotThreshold float64 = 1e-15 // smallest usable pivot magnitude after row exchange
)

// Annotate levels
const (
	AnnotateNone    int = 0
	AnnotateStrange int = 1 // singular fallbacks, restarts, approximate Jacobian resets
	AnnotateFull    int = 2 // one line per iteration
)

// Configuration replaces the loose argument list of a solve call.
type Configuration struct {
	Method        string  // "newton" | "secant", case-insensitive. Default: newton
	Epsilon       float64 // Default: 1e-6
	MaxIterations int     // Default: 1000

	Annotate int         // 0: None, 1: OnStrangeBehavior, 2: Full
	Logger   *zap.Logger // nil: zap.NewNop()
}

// Method is the tagged solver variant chosen by Solve.
type Method int

const (
	Newton Method = iota
	Secant
)

func (m Method) String() string {
	switch m {
	case Newton:
		return "Newton"
	case Secant:
		return "Secant"
	}
	return "Unknown"
}

// SolveResult is produced once per Solve call and shares nothing with the solver that built it.
type SolveResult struct {
	Solution            []float64 `json:"solution"`
	Iterations          int       `json:"iterations"`
	FinalError          float64   `json:"final_error"`
	Converged           bool      `json:"converged"`
	FunctionEvaluations int       `json:"function_evaluations"`
	JacobianEvaluations int       `json:"jacobian_evaluations"`
	MethodUsed          string    `json:"method_used"`
}

// FunctionEvaluator maps a point to the residual of one equation.
type FunctionEvaluator func(x []float64) float64

// System holds one evaluator per equation, in equation order.
type System []FunctionEvaluator

// Matrix is a dense, square, row-major matrix with 0-based indexing.
type Matrix struct {
	Size     int
	Elements []float64 // Size*Size entries, row-major
}

// LU is the result of Gaussian elimination with partial pivoting on a private copy
// of a Matrix. Multipliers live below the diagonal, U on and above it.
type LU struct {
	Size int

	Elements []float64 // factored copy, row-major
	Perm     []int     // Perm[i] is the original row now at position i

	NumberOfInterchangesIsOdd bool // sign of the determinant
	SingularRow               int  // first row whose pivot was too small, -1 when none
}

type iterationState struct {
	x     []float64
	fx    []float64
	dx    []float64
	error float64

	functionEvaluations int
	jacobianEvaluations int
}

func newIterationState(x0 []float64) *iterationState {
	n := len(x0)
	x := make([]float64, n)
	copy(x, x0)
	return &iterationState{
		x:  x,
		fx: make([]float64, n),
		dx: make([]float64, n),
	}
}

// result copies the state into a SolveResult so no slice escapes the solver.
func (s *iterationState) result(method Method, iterations int, finalError float64, converged bool) SolveResult {
	solution := make([]float64, len(s.x))
	copy(solution, s.x)
	return SolveResult{
		Solution:            solution,
		Iterations:          iterations,
		FinalError:          finalError,
		Converged:           converged,
		FunctionEvaluations: s.functionEvaluations,
		JacobianEvaluations: s.jacobianEvaluations,
		MethodUsed:          method.String(),
	}
}
