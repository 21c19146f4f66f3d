package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nlsolve"
)

// ValidationReport is the JSON form of the validate command's output.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate [equation...]",
		Short: "Check equations without solving them",
		Long: `Check that the equations form a system nlsolve can solve: 2 to 10 equations,
no trigonometric functions, every equation parses and ends in "= 0", and every
equation uses at least two distinct variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			equations, err := readEquations(args, file, cmd.InOrStdin())
			if err != nil {
				return WrapExitError(ExitCommandError, "read equations", err)
			}

			report := validateSystem(equations)
			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				for _, e := range report.Errors {
					fmt.Fprintln(out, "error:", e)
				}
				for _, w := range report.Warnings {
					fmt.Fprintln(out, "warning:", w)
				}
				if report.Valid {
					fmt.Fprintf(out, "%d equations OK\n", len(equations))
				}
			}

			if !report.Valid {
				return NewExitError(ExitFailure, "validation failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read equations from file, one per line (- for stdin)")
	return cmd
}

func validateSystem(equations []string) ValidationReport {
	var report ValidationReport

	x0 := make([]float64, len(equations))
	if err := nlsolve.ValidateInputs(equations, x0, nlsolve.DefaultEpsilon, nlsolve.DefaultMaxIterations); err != nil {
		report.Errors = append(report.Errors, err.Error())
	}
	if err := nlsolve.ValidateNoTrigonometric(equations); err != nil {
		report.Errors = append(report.Errors, err.Error())
	} else if _, err := nlsolve.CompileSystem(equations); err != nil {
		report.Errors = append(report.Errors, err.Error())
	}
	report.Warnings = nlsolve.LintEquations(equations)

	report.Valid = len(report.Errors) == 0 && len(report.Warnings) == 0
	return report
}
