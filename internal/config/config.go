// Package config loads YAML experiment configuration for the manabi CLI.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/manabi-ml/manabi/pkg/errors"
)

const (
	DefaultNeighbors = 5
	DefaultWeights   = "uniform"
	DefaultMetric    = "euclidean"
	DefaultFolds     = 5
	DefaultTestSize  = 0.25
	DefaultSeed      = 42
	DefaultCacheDir  = ".manabi/cache"
)

// Config describes one experiment: where the data comes from, how the
// estimator is set up and how it is evaluated.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Estimator EstimatorConfig `yaml:"estimator"`
	Eval      EvalConfig      `yaml:"eval"`
	LogLevel  string          `yaml:"log_level"`
}

type DataConfig struct {
	Path     string `yaml:"path"`
	URL      string `yaml:"url"`
	CacheDir string `yaml:"cache_dir"`
	Target   string `yaml:"target"`
	Scale    bool   `yaml:"scale"`
}

type EstimatorConfig struct {
	Task       string  `yaml:"task"` // "classification" or "regression"
	Neighbors  int     `yaml:"n_neighbors"`
	Weights    string  `yaml:"weights"`
	Metric     string  `yaml:"metric"`
	MinkowskiP float64 `yaml:"p"`
}

type EvalConfig struct {
	Folds       int      `yaml:"folds"`
	Stratified  bool     `yaml:"stratified"`
	Shuffle     bool     `yaml:"shuffle"`
	TestSize    float64  `yaml:"test_size"`
	Seed        int64    `yaml:"seed"`
	GridK       []int    `yaml:"grid_k"`
	GridWeights []string `yaml:"grid_weights"`
}

// DefaultConfig returns a classification setup with the library defaults.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			CacheDir: DefaultCacheDir,
		},
		Estimator: EstimatorConfig{
			Task:       "classification",
			Neighbors:  DefaultNeighbors,
			Weights:    DefaultWeights,
			Metric:     DefaultMetric,
			MinkowskiP: 2,
		},
		Eval: EvalConfig{
			Folds:      DefaultFolds,
			Stratified: true,
			Shuffle:    true,
			TestSize:   DefaultTestSize,
			Seed:       DefaultSeed,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing config %s", path)
	}
	return nil
}

// Validate rejects values the estimator or evaluator would choke on later.
func (c *Config) Validate() error {
	switch c.Estimator.Task {
	case "classification", "regression":
	default:
		return errors.NewValidationError("estimator.task",
			"must be \"classification\" or \"regression\"", c.Estimator.Task)
	}
	if c.Estimator.Neighbors < 1 {
		return errors.NewValidationError("estimator.n_neighbors", "must be at least 1", c.Estimator.Neighbors)
	}
	if c.Eval.Folds < 2 {
		return errors.NewValidationError("eval.folds", "must be at least 2", c.Eval.Folds)
	}
	if c.Eval.TestSize <= 0 || c.Eval.TestSize >= 1 {
		return errors.NewValidationError("eval.test_size", "must be strictly between 0 and 1", c.Eval.TestSize)
	}
	for _, k := range c.Eval.GridK {
		if k < 1 {
			return errors.NewValidationError("eval.grid_k", "entries must be at least 1", k)
		}
	}
	for _, w := range c.Eval.GridWeights {
		if w != "uniform" && w != "distance" {
			return errors.NewValidationError("eval.grid_weights",
				"entries must be \"uniform\" or \"distance\"", w)
		}
	}
	if c.Data.Path == "" && c.Data.URL == "" {
		return errors.NewValueError("config", "either data.path or data.url must be set")
	}
	return nil
}
