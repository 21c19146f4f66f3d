package nlsolve

import (
	"fmt"
	"io"
	"math"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// annotator reports solver progress through zap according to Configuration.Annotate.
type annotator struct {
	log    *zap.Logger
	level  int
	method Method
}

func newAnnotator(config *Configuration, method Method) annotator {
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return annotator{
		log:    log.With(zap.Stringer("method", method)),
		level:  config.Annotate,
		method: method,
	}
}

func (a annotator) strange(iter int, msg string, err error) {
	if a.level < AnnotateStrange {
		return
	}
	fields := []zap.Field{zap.Int("iteration", iter)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	a.log.Info(msg, fields...)
}

// writeStatus logs the state after a step has been taken.
func (a annotator) writeStatus(iter int, st *iterationState, alpha float64) {
	if a.level < AnnotateFull {
		return
	}
	a.log.Debug("step",
		zap.Int("iteration", iter),
		zap.Float64("error", st.error),
		zap.Float64("alpha", alpha),
		zap.Float64("step_norm", norm(st.dx)),
		zap.Float64s("x", st.x),
		zap.Int("function_evaluations", st.functionEvaluations),
		zap.Int("jacobian_evaluations", st.jacobianEvaluations),
	)
}

func (m *Matrix) Print(w io.Writer, header bool) {
	if m == nil {
		return
	}

	if header {
		fmt.Fprintf(w, "MATRIX SUMMARY\n\n")
		fmt.Fprintf(w, "Size of matrix = %d x %d.\n\n", m.Size, m.Size)
		fmt.Fprintf(w, "    ")
		for col := 0; col < m.Size; col++ {
			fmt.Fprintf(w, " %9d", col+1)
		}
		fmt.Fprintf(w, "\n\n")
	}

	for row := 0; row < m.Size; row++ {
		if header {
			fmt.Fprintf(w, "%4d", row+1)
		}
		for col := 0; col < m.Size; col++ {
			fmt.Fprintf(w, " %9.3g", m.Get(row, col))
		}
		fmt.Fprintln(w)
	}

	if header {
		stats := m.calculateStatistics()
		fmt.Fprintf(w, "\nLargest element in matrix = %-1.4g.\n", stats.largestElement)
		fmt.Fprintf(w, "Smallest element in matrix = %-1.4g.\n", stats.smallestElement)
		fmt.Fprintf(w, "\nLargest diagonal element = %-1.4g.\n", stats.largestDiag)
		fmt.Fprintf(w, "Smallest diagonal element = %-1.4g.\n", stats.smallestDiag)
		fmt.Fprintf(w, "\nDensity = %.2f%%.\n\n", float64(stats.elementCount)*100.0/float64(m.Size*m.Size))
	}
}

type matrixStats struct {
	largestElement  float64
	smallestElement float64
	largestDiag     float64
	smallestDiag    float64
	elementCount    int
}

// calculateStatistics ignores zero entries when looking for the smallest magnitudes.
func (m *Matrix) calculateStatistics() matrixStats {
	stats := matrixStats{
		smallestElement: math.MaxFloat64,
		smallestDiag:    math.MaxFloat64,
	}

	for row := 0; row < m.Size; row++ {
		for col := 0; col < m.Size; col++ {
			magnitude := math.Abs(m.Get(row, col))
			if magnitude == 0 {
				continue
			}
			stats.elementCount++
			stats.largestElement = math.Max(stats.largestElement, magnitude)
			stats.smallestElement = math.Min(stats.smallestElement, magnitude)
			if row == col {
				stats.largestDiag = math.Max(stats.largestDiag, magnitude)
				stats.smallestDiag = math.Min(stats.smallestDiag, magnitude)
			}
		}
	}

	if stats.elementCount == 0 {
		stats.smallestElement = 0
	}
	if stats.smallestDiag == math.MaxFloat64 {
		stats.smallestDiag = 0
	}
	return stats
}

// WriteResult prints a solve result in the layout of the command line tool.
func WriteResult(w io.Writer, res SolveResult) {
	fmt.Fprintf(w, "Method: %s\n", res.MethodUsed)
	if res.Converged {
		fmt.Fprintf(w, "Converged in %d iterations.\n", res.Iterations)
	} else {
		fmt.Fprintf(w, "Did not converge after %d iterations.\n", res.Iterations)
	}
	fmt.Fprintf(w, "Final error: %.6e\n", res.FinalError)
	fmt.Fprintf(w, "Function evaluations: %d\n", res.FunctionEvaluations)
	fmt.Fprintf(w, "Jacobian evaluations: %d\n", res.JacobianEvaluations)
	fmt.Fprintln(w, "Solution:")
	for i, v := range res.Solution {
		fmt.Fprintf(w, "  x%d = %.10f\n", i+1, v)
	}
}

// WriteCostReport prints a cost estimate with grouped thousands.
func WriteCostReport(w io.Writer, est CostEstimate) {
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "COMPLEXITY ANALYSIS - %s\n\n", est.Method)
	fmt.Fprintf(w, "SYSTEM PARAMETERS:\n")
	fmt.Fprintf(w, "  System size: %d equations\n", est.SystemSize)
	fmt.Fprintf(w, "  Number of iterations: %d\n", est.Iterations)
	fmt.Fprintf(w, "  Update period (p): %d\n", est.UpdatePeriod)
	fmt.Fprintf(w, "  Method: %s\n\n", est.Method)
	fmt.Fprintf(w, "TIME COMPLEXITY:\n")
	fmt.Fprintf(w, "  Theoretical: %s\n", est.TimeNotation)
	fmt.Fprintf(w, "  Estimated operations: %s\n\n", p.Sprintf("%d", est.EstimatedOperations))
	fmt.Fprintf(w, "SPACE COMPLEXITY:\n")
	fmt.Fprintf(w, "  Theoretical: %s\n", est.SpaceNotation)
	fmt.Fprintf(w, "  Estimated memory: %s\n\n", formatMemorySize(est.EstimatedMemoryBytes))
	fmt.Fprintf(w, "COMPARATIVE CHARACTERISTICS:\n")
	fmt.Fprintf(w, "  %s\n", sizeRecommendation(est.SystemSize))
}

func formatMemorySize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d bytes", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024.0)
	}
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024.0*1024.0))
}

func sizeRecommendation(n int) string {
	switch {
	case n <= 3:
		return "Small system - optimal for both methods"
	case n <= 6:
		return "Medium system - Newton's method is more appropriate"
	case n <= MaxUnknowns:
		return "Large system - Secant method is more appropriate"
	}
	return "Maximum system size reached - for larger problems, consider external solvers"
}
