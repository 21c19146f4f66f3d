// Package config loads command line defaults from a YAML file and NLSOLVE_*
// environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"nlsolve"
)

// DefaultTimeout bounds one background solve.
const DefaultTimeout = 120 * time.Second

type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	Logging LoggingConfig `yaml:"logging"`
}

type SolverConfig struct {
	Method        string        `yaml:"method" env:"NLSOLVE_METHOD"`
	Epsilon       float64       `yaml:"epsilon" env:"NLSOLVE_EPSILON"`
	MaxIterations int           `yaml:"max_iterations" env:"NLSOLVE_MAX_ITERATIONS"`
	Timeout       time.Duration `yaml:"timeout" env:"NLSOLVE_TIMEOUT"`
	UpdatePeriod  int           `yaml:"update_period" env:"NLSOLVE_UPDATE_PERIOD"` // cost report only
	Annotate      int           `yaml:"annotate" env:"NLSOLVE_ANNOTATE"`
}

type LoggingConfig struct {
	Level       string `yaml:"level" env:"NLSOLVE_LOG_LEVEL"` // debug, info, warn, error
	Development bool   `yaml:"development" env:"NLSOLVE_LOG_DEVELOPMENT"`
}

func Default() Config {
	return Config{
		Solver: SolverConfig{
			Method:        "newton",
			Epsilon:       nlsolve.DefaultEpsilon,
			MaxIterations: nlsolve.DefaultMaxIterations,
			Timeout:       DefaultTimeout,
			UpdatePeriod:  nlsolve.DefaultUpdatePeriod,
			Annotate:      nlsolve.AnnotateNone,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load starts from Default, overlays the YAML file at path when path is not empty,
// then overlays any NLSOLVE_* environment variables that are set.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := nlsolve.ParseMethod(c.Solver.Method); err != nil {
		return err
	}
	if c.Solver.Epsilon < nlsolve.MinEpsilon || c.Solver.Epsilon > nlsolve.MaxEpsilon {
		return fmt.Errorf("solver.epsilon %g not in [%g, %g]", c.Solver.Epsilon, nlsolve.MinEpsilon, nlsolve.MaxEpsilon)
	}
	if c.Solver.MaxIterations < nlsolve.MinMaxIterations || c.Solver.MaxIterations > nlsolve.MaxMaxIterations {
		return fmt.Errorf("solver.max_iterations %d not in [%d, %d]",
			c.Solver.MaxIterations, nlsolve.MinMaxIterations, nlsolve.MaxMaxIterations)
	}
	if c.Solver.Timeout <= 0 {
		return fmt.Errorf("solver.timeout must be positive, got %s", c.Solver.Timeout)
	}
	if c.Solver.UpdatePeriod <= 0 {
		return fmt.Errorf("solver.update_period must be positive, got %d", c.Solver.UpdatePeriod)
	}
	if _, err := zap.ParseAtomicLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// Configuration converts the solver section for nlsolve.Solve.
func (c SolverConfig) Configuration(log *zap.Logger) *nlsolve.Configuration {
	return &nlsolve.Configuration{
		Method:        c.Method,
		Epsilon:       c.Epsilon,
		MaxIterations: c.MaxIterations,
		Annotate:      c.Annotate,
		Logger:        log,
	}
}

// NewLogger builds a zap logger from the logging section.
func (c LoggingConfig) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
