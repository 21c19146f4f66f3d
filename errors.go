package nlsolve

import (
	"errors"
	"fmt"
)

var (
	// ErrInputValidation marks inputs rejected before any iteration starts.
	ErrInputValidation = errors.New("nlsolve: invalid input")

	// ErrParse marks a malformed number, variable or parenthesis in an equation.
	ErrParse = errors.New("nlsolve: parse error")

	// ErrCancelled is returned when the caller's context ends during a solve.
	// No SolveResult accompanies it.
	ErrCancelled = errors.New("nlsolve: solve cancelled")

	// errSingular never leaves the package: both solvers replace the Newton step
	// with the damped residual step when they see it.
	errSingular = errors.New("nlsolve: singular matrix")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("nlsolve: invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInputValidation
}

func cancelled(err error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, err)
}

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ParseError reports where in an expression parsing stopped.
type ParseError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("nlsolve: parse %q at offset %d: %s", e.Expr, e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}
