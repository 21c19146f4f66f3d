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
	// Intersection of the circle x1² + x2² = 4 with the line x1 = x2.
	equations := []string{
		"1*x1*x1 + 1*x2*x2 + (-4) = 0",
		"1*x1 + (-1)*x2 = 0",
	}
	x0 := []float64{1, 0.5}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	config := &nlsolve.Configuration{
		Method:        "newton",
		Epsilon:       1e-10,
		MaxIterations: 50,
		Annotate:      nlsolve.AnnotateFull,
		Logger:        logger,
	}

	res, err := nlsolve.Solve(context.Background(), equations, x0, config)
	if err != nil {
		log.Fatalf("Failed to solve: %v", err)
	}

	nlsolve.WriteResult(os.Stdout, res)
	fmt.Printf("Expected: x1 = x2 = %.10f\n", 1.4142135624)

	est, err := nlsolve.EstimateCost(len(equations), res.Iterations, nlsolve.Newton, nlsolve.DefaultUpdatePeriod)
	if err != nil {
		log.Fatalf("Failed to estimate cost: %v", err)
	}
	fmt.Println()
	nlsolve.WriteCostReport(os.Stdout, est)
}
