package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"nlsolve/internal/demo"
)

type generatedSystem struct {
	Equations    []string  `json:"equations"`
	InitialGuess []float64 `json:"initial_guess"`
}

func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		size int
		seed int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a random demo system",
		Long: `Print a random system of equations with a nearby real solution, followed by
an initial guess usable with "solve --x0". The same seed prints the same system.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng := rand.New(rand.NewSource(seed))
			equations, err := demo.GenerateSystem(rng, size)
			if err != nil {
				return WrapExitError(ExitCommandError, "generate", err)
			}
			sys := generatedSystem{
				Equations:    equations,
				InitialGuess: demo.InitialGuess(rng, size),
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				return writeJSON(out, sys)
			}
			for _, e := range sys.Equations {
				fmt.Fprintln(out, e)
			}
			guess := make([]string, len(sys.InitialGuess))
			for i, v := range sys.InitialGuess {
				guess[i] = strconv.FormatFloat(v, 'f', 4, 64)
			}
			fmt.Fprintf(out, "# x0: %s\n", strings.Join(guess, ","))
			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", 3, "number of equations")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	return cmd
}
