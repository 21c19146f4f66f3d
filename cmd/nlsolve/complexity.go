package main

import (
	"github.com/spf13/cobra"

	"nlsolve"
)

func NewComplexityCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		size         int
		iterations   int
		method       string
		updatePeriod int
	)

	cmd := &cobra.Command{
		Use:   "complexity",
		Short: "Estimate the cost of a solve",
		Long: `Print closed-form time and space estimates for a system of the given size.
The update period only changes the report; both solvers refresh their Jacobian
every iteration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if method == "" {
				method = rootOpts.Config.Solver.Method
			}
			if iterations == 0 {
				iterations = rootOpts.Config.Solver.MaxIterations
			}
			if updatePeriod == 0 {
				updatePeriod = rootOpts.Config.Solver.UpdatePeriod
			}

			m, err := nlsolve.ParseMethod(method)
			if err != nil {
				return WrapExitError(ExitCommandError, "complexity", err)
			}
			est, err := nlsolve.EstimateCost(size, iterations, m, updatePeriod)
			if err != nil {
				return WrapExitError(ExitCommandError, "complexity", err)
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), est)
			}
			nlsolve.WriteCostReport(cmd.OutOrStdout(), est)
			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", 2, "number of equations")
	cmd.Flags().IntVarP(&iterations, "iterations", "k", 0, "iteration count (default: configured max iterations)")
	cmd.Flags().StringVarP(&method, "method", "m", "", "newton or secant (default from config)")
	cmd.Flags().IntVarP(&updatePeriod, "update-period", "p", 0, "reporting-only update period (default from config)")

	return cmd
}
