package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nlsolve"
	"nlsolve/internal/worker"
)

type solveOptions struct {
	file          string
	method        string
	epsilon       float64
	maxIterations int
	x0            []float64
	timeout       time.Duration
	annotate      int
}

func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve [equation...]",
		Short: "Solve a system of equations",
		Long: `Solve a system of equations given as arguments or one per line with --file.

Example:
  nlsolve solve "1*x1 + 1*x2 + (-2) = 0" "1*x1 + (-1)*x2 = 0" --x0 0,0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, rootOpts, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read equations from file, one per line (- for stdin)")
	cmd.Flags().StringVarP(&opts.method, "method", "m", "", "newton or secant (default from config)")
	cmd.Flags().Float64VarP(&opts.epsilon, "epsilon", "e", 0, "tolerance on the residual norm (default from config)")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", 0, "iteration limit (default from config)")
	cmd.Flags().Float64SliceVar(&opts.x0, "x0", nil, "initial guess, comma separated (default all zeros)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "wall-clock limit for the solve (default from config)")
	cmd.Flags().IntVar(&opts.annotate, "annotate", -1, "0 none, 1 unusual events, 2 every iteration")

	return cmd
}

func runSolve(cmd *cobra.Command, rootOpts *RootOptions, opts *solveOptions, args []string) error {
	equations, err := readEquations(args, opts.file, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "read equations", err)
	}

	sc := rootOpts.Config.Solver
	if opts.method != "" {
		sc.Method = opts.method
	}
	if opts.epsilon != 0 {
		sc.Epsilon = opts.epsilon
	}
	if opts.maxIterations != 0 {
		sc.MaxIterations = opts.maxIterations
	}
	if opts.timeout != 0 {
		sc.Timeout = opts.timeout
	}
	if opts.annotate >= 0 {
		sc.Annotate = opts.annotate
	}

	x0 := opts.x0
	if x0 == nil {
		x0 = make([]float64, len(equations))
	}

	log := rootOpts.Logger.With(zap.String("run", uuid.NewString()))
	log.Debug("solving",
		zap.Strings("equations", equations),
		zap.Float64s("x0", x0),
		zap.String("method", sc.Method),
		zap.Float64("epsilon", sc.Epsilon),
		zap.Int("max_iterations", sc.MaxIterations),
		zap.Duration("timeout", sc.Timeout))

	start := time.Now()
	job := worker.Start(cmd.Context(), sc.Timeout, func(ctx context.Context) (nlsolve.SolveResult, error) {
		return nlsolve.Solve(ctx, equations, x0, sc.Configuration(log))
	})

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
wait:
	for {
		select {
		case <-job.Done():
			break wait
		case <-ticker.C:
			log.Info("still solving", zap.Duration("elapsed", time.Since(start)))
		}
	}

	res, err := job.Wait()
	if err != nil {
		switch {
		case errors.Is(err, worker.ErrDeadline):
			return WrapExitError(ExitFailure, "solve timed out", err)
		case errors.Is(err, nlsolve.ErrCancelled):
			return WrapExitError(ExitFailure, "solve cancelled", err)
		}
		return WrapExitError(ExitCommandError, "solve", err)
	}

	log.Info("solved",
		zap.Bool("converged", res.Converged),
		zap.Int("iterations", res.Iterations),
		zap.Float64("final_error", res.FinalError),
		zap.Duration("elapsed", time.Since(start)))

	out := cmd.OutOrStdout()
	if rootOpts.Format == "json" {
		if err := writeJSON(out, res); err != nil {
			return err
		}
	} else {
		nlsolve.WriteResult(out, res)
	}

	if !res.Converged {
		return NewExitError(ExitFailure, "did not converge")
	}
	return nil
}
