package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	content := `
data:
  path: iris.csv
  target: species
estimator:
  task: classification
  n_neighbors: 3
  weights: distance
eval:
  folds: 10
  grid_k: [1, 3, 5]
  grid_weights: [uniform, distance]
`
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Data.Path != "iris.csv" || cfg.Data.Target != "species" {
		t.Errorf("data section = %+v", cfg.Data)
	}
	if cfg.Estimator.Neighbors != 3 || cfg.Estimator.Weights != "distance" {
		t.Errorf("estimator section = %+v", cfg.Estimator)
	}
	if cfg.Eval.Folds != 10 {
		t.Errorf("folds = %d, want 10", cfg.Eval.Folds)
	}
	if len(cfg.Eval.GridK) != 3 {
		t.Errorf("grid_k = %v, want 3 values", cfg.Eval.GridK)
	}
	if len(cfg.Eval.GridWeights) != 2 || cfg.Eval.GridWeights[1] != "distance" {
		t.Errorf("grid_weights = %v, want [uniform distance]", cfg.Eval.GridWeights)
	}

	// Unset fields keep their defaults.
	if cfg.Estimator.Metric != DefaultMetric {
		t.Errorf("metric = %q, want default %q", cfg.Estimator.Metric, DefaultMetric)
	}
	if cfg.Eval.TestSize != DefaultTestSize {
		t.Errorf("test_size = %v, want default %v", cfg.Eval.TestSize, DefaultTestSize)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "data: [unclosed"},
		{"unknown task", "data:\n  path: x.csv\nestimator:\n  task: clustering\n"},
		{"zero neighbors", "data:\n  path: x.csv\nestimator:\n  task: regression\n  n_neighbors: 0\n"},
		{"no data source", "estimator:\n  task: classification\n"},
		{"one fold", "data:\n  path: x.csv\neval:\n  folds: 1\n"},
		{"zero grid k", "data:\n  path: x.csv\neval:\n  grid_k: [0, 3]\n"},
		{"unknown grid weight", "data:\n  path: x.csv\neval:\n  grid_weights: [gaussian]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestSaveRoundtrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.Path = "data.csv"
	cfg.Estimator.Neighbors = 7

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Estimator.Neighbors != 7 || loaded.Data.Path != "data.csv" {
		t.Errorf("roundtrip mismatch: %+v", loaded)
	}
}
