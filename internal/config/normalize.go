package config

import "hinteval/internal/task"

// Normalize fills in defaults after parsing and before validation.
func Normalize(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "results"
	}
	if cfg.Bootstrap.Samples == 0 {
		cfg.Bootstrap.Samples = task.DefaultBootstrapSamples
	}
	if cfg.Bootstrap.Seed == 0 {
		cfg.Bootstrap.Seed = task.DefaultSeed
	}
	if cfg.Bootstrap.Confidence == 0 {
		cfg.Bootstrap.Confidence = task.DefaultConfidence
	}
}
