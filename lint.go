package nlsolve

import (
	"fmt"
	"strings"
)

// LintEquations reports equations that Solve accepts but that break the input
// conventions: each equation ends in "= 0", uses at least two distinct variables and
// only refers to x1..xn for a system of n equations. Equations that do not parse are
// reported as well.
func LintEquations(equations []string) []string {
	var warnings []string
	for i, equation := range equations {
		trimmed := strings.TrimSpace(equation)
		if !strings.HasSuffix(trimmed, "=0") && !strings.HasSuffix(trimmed, "= 0") {
			warnings = append(warnings, fmt.Sprintf("equation %d: must end with '= 0'", i+1))
		}

		e, err := ParseEquation(trimmed)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("equation %d: %v", i+1, err))
			continue
		}
		if k := e.MaxVariable(); k > len(equations) {
			warnings = append(warnings, fmt.Sprintf("equation %d: x%d is beyond the %d unknowns and evaluates as 1", i+1, k, len(equations)))
		}
		if vars := e.Variables(); len(vars) < 2 {
			warnings = append(warnings, fmt.Sprintf("equation %d: uses %d distinct variable(s), want at least 2", i+1, len(vars)))
		}
	}
	return warnings
}
