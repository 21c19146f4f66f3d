package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nlsolve.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
solver:
  method: secant
  epsilon: 0.0001
  max_iterations: 250
  timeout: 30s
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Solver.Method = "secant"
	want.Solver.Epsilon = 1e-4
	want.Solver.MaxIterations = 250
	want.Solver.Timeout = 30 * time.Second
	want.Logging.Level = "debug"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "solver:\n  method: secant\n  max_iterations: 250\n")
	t.Setenv("NLSOLVE_METHOD", "newton")
	t.Setenv("NLSOLVE_TIMEOUT", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "newton", cfg.Solver.Method)
	assert.Equal(t, 250, cfg.Solver.MaxIterations)
	assert.Equal(t, 5*time.Second, cfg.Solver.Timeout)
}

func TestLoad_RejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"epsilon", "solver:\n  epsilon: 0.5\n"},
		{"iterations", "solver:\n  max_iterations: 5\n"},
		{"method", "solver:\n  method: bisection\n"},
		{"timeout", "solver:\n  timeout: -1s\n"},
		{"level", "logging:\n  level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSolverConfig_Configuration(t *testing.T) {
	sc := Default().Solver
	sc.Annotate = 2

	c := sc.Configuration(nil)
	assert.Equal(t, "newton", c.Method)
	assert.Equal(t, sc.Epsilon, c.Epsilon)
	assert.Equal(t, sc.MaxIterations, c.MaxIterations)
	assert.Equal(t, 2, c.Annotate)
	assert.Nil(t, c.Logger)
}

func TestLoggingConfig_NewLogger(t *testing.T) {
	log, err := LoggingConfig{Level: "debug", Development: true}.NewLogger()
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	_, err = LoggingConfig{Level: "nope"}.NewLogger()
	assert.Error(t, err)
}
