package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"nlsolve"
)

func main() {
	equations := []string{
		"3*x1 + 1*x1*x2 + (-1)*x3 + (-2.5) = 0",
		"1*x1 + 4*x2 + (-0,5)*x2*x2 + (-4) = 0",
		"1*x2*x3 + 2*x3 + (-1)*x1 + (-2) = 0",
	}
	x0 := []float64{0.5, 0.5, 0.5}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	for _, method := range []string{"newton", "secant"} {
		config := &nlsolve.Configuration{
			Method:   method,
			Annotate: nlsolve.AnnotateStrange,
			Logger:   logger,
		}

		res, err := nlsolve.Solve(context.Background(), equations, x0, config)
		if err != nil {
			log.Fatalf("Failed to solve with %s: %v", method, err)
		}

		nlsolve.WriteResult(os.Stdout, res)
		fmt.Println()
	}
}
