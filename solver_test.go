package nlsolve

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	linearSystem = []string{
		"1*x1 + 1*x2 + (-2) = 0",
		"1*x1 + (-1)*x2 = 0",
	}
	circleSystem = []string{
		"1*x1*x1 + 1*x2*x2 + (-4) = 0",
		"1*x1 + (-1)*x2 = 0",
	}
	// Every Jacobian of this system is exactly zero.
	flatSystem = []string{
		"0*x1 + 0*x2 + 1 = 0",
		"0*x1 + 0*x2 + 1 = 0",
	}
)

func residualNorm(t *testing.T, equations []string, x []float64) float64 {
	t.Helper()
	sys, err := BindSystem(equations)
	require.NoError(t, err)
	fx := make([]float64, len(x))
	sys.Residuals(x, fx)
	return norm(fx)
}

func TestSolve_Linear(t *testing.T) {
	for _, method := range []string{"newton", "secant"} {
		t.Run(method, func(t *testing.T) {
			res, err := Solve(context.Background(), linearSystem, []float64{0, 0}, &Configuration{Method: method})
			require.NoError(t, err)

			assert.True(t, res.Converged)
			assert.InDeltaSlice(t, []float64{1, 1}, res.Solution, 1e-5)
			assert.Less(t, res.FinalError, 10*DefaultEpsilon)
			assert.Positive(t, res.FunctionEvaluations)
			assert.LessOrEqual(t, res.Iterations, DefaultMaxIterations)
		})
	}
}

func TestSolve_Newton(t *testing.T) {
	res, err := Solve(context.Background(), circleSystem, []float64{1, 1}, nil)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Equal(t, "Newton", res.MethodUsed)
	assert.InDeltaSlice(t, []float64{math.Sqrt2, math.Sqrt2}, res.Solution, 1e-6)
	assert.Positive(t, res.JacobianEvaluations)
	assert.Zero(t, res.JacobianEvaluations%4, "n² per Jacobian")
	assert.Greater(t, res.FunctionEvaluations, res.JacobianEvaluations)
}

func TestSolve_Secant(t *testing.T) {
	x0 := []float64{1, 1}
	initialError := residualNorm(t, circleSystem, x0)

	res, err := Solve(context.Background(), circleSystem, x0, &Configuration{Method: "Secant"})
	require.NoError(t, err)

	assert.Equal(t, "Secant", res.MethodUsed)
	assert.Zero(t, res.JacobianEvaluations)
	assert.GreaterOrEqual(t, res.FunctionEvaluations, 2*len(x0))
	assert.Less(t, res.FinalError, initialError)
}

func TestSolve_FinalErrorMatchesSolution(t *testing.T) {
	tests := []struct {
		name      string
		equations []string
		x0        []float64
		config    *Configuration
	}{
		{"newton converged", circleSystem, []float64{1, 1}, &Configuration{Method: "newton"}},
		{"secant converged", linearSystem, []float64{0, 0}, &Configuration{Method: "secant"}},
		{"newton exhausted", flatSystem, []float64{0, 0}, &Configuration{Method: "newton", MaxIterations: 10}},
		{"secant exhausted", flatSystem, []float64{0, 0}, &Configuration{Method: "secant", MaxIterations: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Solve(context.Background(), tt.equations, tt.x0, tt.config)
			require.NoError(t, err)
			assert.InDelta(t, residualNorm(t, tt.equations, res.Solution), res.FinalError, 1e-12)
		})
	}
}

func TestSolve_Deterministic(t *testing.T) {
	for _, method := range []string{"newton", "secant"} {
		cfg := &Configuration{Method: method}
		first, err := Solve(context.Background(), circleSystem, []float64{0.5, 2}, cfg)
		require.NoError(t, err)
		second, err := Solve(context.Background(), circleSystem, []float64{0.5, 2}, cfg)
		require.NoError(t, err)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("%s: results differ (-first +second):\n%s", method, diff)
		}
	}
}

func TestSolve_DoesNotModifyInitialGuess(t *testing.T) {
	x0 := []float64{1, 1}
	_, err := Solve(context.Background(), circleSystem, x0, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, x0)
}

func TestSolve_SingularJacobian(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := &Configuration{
		Method:        "newton",
		MaxIterations: 10,
		Annotate:      AnnotateFull,
		Logger:        zap.New(core),
	}

	res, err := Solve(context.Background(), flatSystem, []float64{0, 0}, cfg)
	require.NoError(t, err)

	assert.False(t, res.Converged)
	assert.Equal(t, 10, res.Iterations)
	assert.InDelta(t, math.Sqrt2, res.FinalError, 1e-12)
	// Per iteration: n residuals, n² for the Jacobian, 8 line-search trials of n.
	assert.Equal(t, 10*(2+4+16), res.FunctionEvaluations)
	assert.Equal(t, 10*4, res.JacobianEvaluations)

	assert.Equal(t, 10, logs.FilterMessage("singular jacobian, taking damped residual step").Len())
	assert.Equal(t, 10, logs.FilterMessage("step").Len())
	for _, entry := range logs.All() {
		assert.Equal(t, "Newton", entry.ContextMap()["method"])
	}
}

func TestSolve_AnnotateNone(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, err := Solve(context.Background(), flatSystem, []float64{0, 0},
		&Configuration{Method: "secant", MaxIterations: 10, Logger: zap.New(core)})
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}

func TestSolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, method := range []string{"newton", "secant"} {
		res, err := Solve(ctx, circleSystem, []float64{1, 1}, &Configuration{Method: method})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCancelled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, res.Solution)
	}
}

func TestSolve_InvalidInput(t *testing.T) {
	eleven := make([]string, 11)
	for i := range eleven {
		eleven[i] = "1*x1 + 1*x2 = 0"
	}

	tests := []struct {
		name      string
		equations []string
		x0        []float64
		config    *Configuration
		field     string
	}{
		{"no equations", nil, []float64{0, 0}, nil, "equations"},
		{"no initial guess", linearSystem, nil, nil, "initial guess"},
		{"length mismatch", linearSystem, []float64{0, 0, 0}, nil, "initial guess"},
		{"too many equations", eleven, make([]float64, 11), nil, "equations"},
		{"too few equations", []string{"1*x1 = 0"}, []float64{0}, nil, "equations"},
		{"non-finite guess", linearSystem, []float64{math.NaN(), 0}, nil, "initial guess"},
		{"epsilon too small", linearSystem, []float64{0, 0}, &Configuration{Epsilon: 1e-9}, "epsilon"},
		{"epsilon too large", linearSystem, []float64{0, 0}, &Configuration{Epsilon: 0.1}, "epsilon"},
		{"too few iterations", linearSystem, []float64{0, 0}, &Configuration{MaxIterations: 5}, "max iterations"},
		{"too many iterations", linearSystem, []float64{0, 0}, &Configuration{MaxIterations: 10001}, "max iterations"},
		{"unknown method", linearSystem, []float64{0, 0}, &Configuration{Method: "bisection"}, "method"},
		{"trigonometric", []string{"1*x1 + cos(x2) = 0", "1*x2 = 0"}, []float64{0, 0}, nil, "equations"},
		{"hyperbolic", []string{"1*x1 + 1*x2 = 0", "TANH(x1) = 0"}, []float64{0, 0}, nil, "equations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Solve(context.Background(), tt.equations, tt.x0, tt.config)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInputValidation)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Nil(t, res.Solution)
		})
	}
}

func TestSolve_ParseError(t *testing.T) {
	tests := map[string][]string{
		"index outside 1..10": {"1*x1 + 1*x11 = 0", "1*x1 + (-1)*x2 = 0"},
		"malformed number":    {"1*x1 + 1..5*x2 = 0", "1*x1 + (-1)*x2 = 0"},
		"bad parenthesis":     {"1*x1 + (2)*x2 = 0", "1*x1 + (-1)*x2 = 0"},
	}

	for name, equations := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Solve(context.Background(), equations, []float64{0, 0}, nil)
			assert.ErrorIs(t, err, ErrParse)
			assert.NotErrorIs(t, err, ErrInputValidation)
		})
	}
}

func TestSolve_IgnoredFactors(t *testing.T) {
	tests := []struct {
		name      string
		equations []string
		x0        []float64
		want      []float64
	}{
		{
			// x1*x2*x3 evaluates as x1*x2, so x1² + x1 − 1 = 0.
			name:      "third variable factor",
			equations: []string{"1*x1*x2*x3 + 1*x1 + (-1) = 0", "1*x1 + (-1)*x2 = 0"},
			x0:        []float64{0.5, 0.5},
			want:      []float64{(math.Sqrt(5) - 1) / 2, (math.Sqrt(5) - 1) / 2},
		},
		{
			// x5 has no entry in a 2-unknown system and evaluates as 1.
			name:      "variable beyond n",
			equations: []string{"1*x1 + 1*x2 + 1*x5 + (-2) = 0", "1*x1 + (-1)*x2 = 0"},
			x0:        []float64{0, 0},
			want:      []float64{0.5, 0.5},
		},
	}

	for _, tt := range tests {
		for _, method := range []string{"newton", "secant"} {
			t.Run(tt.name+"/"+method, func(t *testing.T) {
				res, err := Solve(context.Background(), tt.equations, tt.x0, &Configuration{Method: method})
				require.NoError(t, err)
				assert.True(t, res.Converged)
				assert.InDeltaSlice(t, tt.want, res.Solution, 1e-5)
			})
		}
	}
}

// steepSystem has its root at x1 = x2 = √2, where neighbouring floats differ in
// residual by about 1e-4, so the iteration runs out of step before reaching ε.
var steepSystem = []string{
	"1000000000000*x1*x1 + (-2000000000000) = 0",
	"1*x1 + (-1)*x2 = 0",
}

func TestSolve_NewtonSmallStepExit(t *testing.T) {
	res, err := Solve(context.Background(), steepSystem, []float64{1000, 1000}, &Configuration{Method: "newton"})
	require.NoError(t, err)

	assert.Greater(t, res.Iterations, 11)
	assert.Less(t, res.Iterations, 30)
	assert.False(t, res.Converged)
	assert.GreaterOrEqual(t, res.FinalError, 10*DefaultEpsilon)
	assert.InDeltaSlice(t, []float64{math.Sqrt2, math.Sqrt2}, res.Solution, 1e-9)
	assert.InDelta(t, residualNorm(t, steepSystem, res.Solution), res.FinalError, 1e-12)
}

func TestSolve_SecantSmallStepExit(t *testing.T) {
	res, err := Solve(context.Background(), steepSystem, []float64{1.5, 1.5}, &Configuration{Method: "secant"})
	require.NoError(t, err)

	assert.Greater(t, res.Iterations, 6)
	assert.Less(t, res.Iterations, 30)
	assert.False(t, res.Converged)
	assert.GreaterOrEqual(t, res.FinalError, 10*DefaultEpsilon)
	assert.InDeltaSlice(t, []float64{math.Sqrt2, math.Sqrt2}, res.Solution, 1e-9)
	assert.InDelta(t, residualNorm(t, steepSystem, res.Solution), res.FinalError, 1e-12)
}

func TestSolve_SecantStallRestart(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := &Configuration{
		Method:        "secant",
		MaxIterations: 40,
		Annotate:      AnnotateStrange,
		Logger:        zap.New(core),
	}

	res, err := Solve(context.Background(), flatSystem, []float64{0, 0}, cfg)
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 40, res.Iterations)
	assert.Zero(t, res.JacobianEvaluations)

	var restarts []int64
	for _, entry := range logs.FilterMessage("stalled, restarting from midpoint of last two iterates").All() {
		restarts = append(restarts, entry.ContextMap()["iteration"].(int64))
	}
	assert.Equal(t, []int64{10, 21, 32}, restarts)

	// The update along a zero secant leaves B singular, so every solve falls back.
	assert.Equal(t, 40, logs.FilterMessage("singular approximate jacobian, reset to identity").Len())
	assert.Zero(t, logs.FilterMessage("step").Len(), "per-iteration lines need AnnotateFull")
}

func TestUpdateApproximateJacobian_NonFinite(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ann := newAnnotator(&Configuration{Annotate: AnnotateStrange, Logger: zap.New(core)}, Secant)

	b, err := Create(2)
	require.NoError(t, err)
	b.SetIdentity()

	x := []float64{1, 0}
	xPrev := []float64{0, 0}
	fx := []float64{math.MaxFloat64, 0}
	fxPrev := []float64{-math.MaxFloat64, 0}
	updateApproximateJacobian(b, x, xPrev, fx, fxPrev, ann, 3)

	assert.Equal(t, []float64{1, 0, 0, 1}, b.Elements)
	entries := logs.FilterMessage("non-finite approximate jacobian, reset to identity").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, int64(3), entries[0].ContextMap()["iteration"])
	}

	// A finite update is kept.
	updateApproximateJacobian(b, []float64{1, 2}, xPrev, []float64{3, 1}, fxPrev, ann, 4)
	assert.NotEqual(t, []float64{1, 0, 0, 1}, b.Elements)
	assert.Equal(t, 1, logs.Len())
}

func TestParseMethod(t *testing.T) {
	for s, want := range map[string]Method{"newton": Newton, "NEWTON": Newton, " Secant ": Secant} {
		got, err := ParseMethod(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMethod("")
	assert.ErrorIs(t, err, ErrInputValidation)
	assert.Equal(t, "Unknown", Method(9).String())
}

func TestBroydenUpdate(t *testing.T) {
	b, err := Create(2)
	require.NoError(t, err)
	b.SetIdentity()

	x := []float64{1, 2}
	xPrev := []float64{0, 0}
	fx := []float64{3, 1}
	fxPrev := []float64{0, 0}
	broydenUpdate(b, x, xPrev, fx, fxPrev)

	// The secant condition B·s = y holds after the update.
	bs, err := b.MultiplyVector([]float64{1, 2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3, 1}, bs, 1e-12)

	before := b.Clone()
	broydenUpdate(b, x, x, fx, fxPrev)
	assert.Equal(t, before.Elements, b.Elements, "zero step leaves B unchanged")
}

func TestLineSearch(t *testing.T) {
	sys, err := BindSystem(linearSystem)
	require.NoError(t, err)

	x := []float64{0, 0}
	fx := make([]float64, 2)
	sys.Residuals(x, fx)

	alpha, trialError, evaluations := sys.lineSearch(x, []float64{1, 1}, fx, newtonLineSearchTrials)
	assert.Equal(t, 1.0, alpha)
	assert.InDelta(t, 0, trialError, 1e-15)
	assert.Equal(t, 2, evaluations)

	// Uphill: every trial fails and the last alpha is taken.
	alpha, _, evaluations = sys.lineSearch(x, []float64{-1, -1}, fx, broydenLineSearchTrials)
	assert.Equal(t, 1.0/16, alpha)
	assert.Equal(t, 2*broydenLineSearchTrials, evaluations)
}

func TestDampedResidualStep(t *testing.T) {
	dx := make([]float64, 2)
	dampedResidualStep([]float64{3, 4}, dx)
	assert.InDeltaSlice(t, []float64{-0.005, -0.00666666}, dx, 1e-6)
}
