package nlsolve

import (
	"context"
	"fmt"
	"strings"
)

var trigonometricTokens = []string{
	"sin", "cos", "tan", "cot", "sec", "csc",
	"asin", "acos", "atan", "sinh", "cosh", "tanh",
}

// Solve finds x with every equation ≈ 0, starting from x0.
//
// Equations are "<expression> = 0" over x1..xn. A nil config selects Newton with
// epsilon 1e-6 and 1000 iterations; zero fields of a non-nil config take the same
// defaults. Input problems are reported as *ValidationError or *ParseError before the
// first iteration. The context is checked at the top of every iteration; if it ends,
// Solve returns a zero SolveResult and an error matching ErrCancelled.
//
// FinalError and Converged both describe the returned Solution: FinalError is the
// residual norm at that point on every exit path, and Converged is decided from it.
func Solve(ctx context.Context, equations []string, x0 []float64, config *Configuration) (SolveResult, error) {
	cfg := defaultConfiguration(config)

	method, err := ParseMethod(cfg.Method)
	if err != nil {
		return SolveResult{}, err
	}
	if err := ValidateInputs(equations, x0, cfg.Epsilon, cfg.MaxIterations); err != nil {
		return SolveResult{}, err
	}
	if err := ValidateNoTrigonometric(equations); err != nil {
		return SolveResult{}, err
	}

	sys, err := BindSystem(equations)
	if err != nil {
		return SolveResult{}, err
	}

	ann := newAnnotator(&cfg, method)
	switch method {
	case Newton:
		return solveNewton(ctx, sys, x0, cfg.Epsilon, cfg.MaxIterations, ann)
	case Secant:
		return solveBroyden(ctx, sys, x0, cfg.Epsilon, cfg.MaxIterations, ann)
	}
	return SolveResult{}, invalidf("method", "unknown method %d", int(method))
}

func defaultConfiguration(config *Configuration) Configuration {
	cfg := Configuration{
		Method:        "newton",
		Epsilon:       DefaultEpsilon,
		MaxIterations: DefaultMaxIterations,
	}
	if config == nil {
		return cfg
	}

	if config.Method != "" {
		cfg.Method = config.Method
	}
	if config.Epsilon != 0 {
		cfg.Epsilon = config.Epsilon
	}
	if config.MaxIterations != 0 {
		cfg.MaxIterations = config.MaxIterations
	}
	cfg.Annotate = config.Annotate
	cfg.Logger = config.Logger
	return cfg
}

// ParseMethod accepts "newton" or "secant" in any case.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "newton":
		return Newton, nil
	case "secant":
		return Secant, nil
	}
	return 0, invalidf("method", "%q must be 'newton' or 'secant'", s)
}

func ValidateInputs(equations []string, x0 []float64, epsilon float64, maxIterations int) error {
	if len(equations) == 0 {
		return invalidf("equations", "no equations given")
	}
	if len(x0) == 0 {
		return invalidf("initial guess", "no initial guess given")
	}
	if len(equations) != len(x0) {
		return invalidf("initial guess", "%d equations but %d initial values", len(equations), len(x0))
	}
	if len(equations) > MaxUnknowns {
		return invalidf("equations", "at most %d equations are supported, got %d", MaxUnknowns, len(equations))
	}
	if len(equations) < MinUnknowns {
		return invalidf("equations", "at least %d equations are required, got %d", MinUnknowns, len(equations))
	}
	for i, v := range x0 {
		if !isFinite(v) {
			return invalidf("initial guess", "x%d = %v is not finite", i+1, v)
		}
	}
	if epsilon < MinEpsilon || epsilon > MaxEpsilon {
		return invalidf("epsilon", "%g not in [%g, %g]", epsilon, MinEpsilon, MaxEpsilon)
	}
	if maxIterations < MinMaxIterations || maxIterations > MaxMaxIterations {
		return invalidf("max iterations", "%d not in [%d, %d]", maxIterations, MinMaxIterations, MaxMaxIterations)
	}
	return nil
}

// ValidateNoTrigonometric rejects any equation mentioning a trigonometric function.
func ValidateNoTrigonometric(equations []string) error {
	for i, equation := range equations {
		lower := strings.ToLower(equation)
		for _, token := range trigonometricTokens {
			if strings.Contains(lower, token) {
				return invalidf("equations", "equation %d uses %q: trigonometric expressions are not supported", i+1, token)
			}
		}
	}
	return nil
}

// CompileSystem parses every equation. A variable beyond the number of equations is
// not an error: it contributes a factor of 1 when the system is evaluated.
func CompileSystem(equations []string) ([]*Expression, error) {
	exprs := make([]*Expression, len(equations))
	for i, equation := range equations {
		e, err := ParseEquation(equation)
		if err != nil {
			return nil, fmt.Errorf("equation %d: %w", i+1, err)
		}
		exprs[i] = e
	}
	return exprs, nil
}

// BindSystem compiles the equations into one evaluator each.
func BindSystem(equations []string) (System, error) {
	exprs, err := CompileSystem(equations)
	if err != nil {
		return nil, err
	}
	sys := make(System, len(exprs))
	for i, e := range exprs {
		sys[i] = e.Func()
	}
	return sys, nil
}
