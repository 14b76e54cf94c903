package config

import (
	"fmt"
	"strings"

	"hinteval/internal/task"
)

// Validate checks a normalized config and aggregates every problem found.
func Validate(cfg *Config) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if cfg.Version != 1 {
		add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}
	if cfg.Task != "" && !task.Valid(cfg.Task) {
		add("task", fmt.Sprintf("unknown task %q (must be one of %s)", cfg.Task, strings.Join(task.Names, ", ")))
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		add("output_dir", "is required")
	}
	if cfg.Bootstrap.Samples < 1 {
		add("bootstrap.samples", fmt.Sprintf("must be >= 1, got %d", cfg.Bootstrap.Samples))
	}
	if cfg.Bootstrap.Confidence <= 0 || cfg.Bootstrap.Confidence >= 1 {
		add("bootstrap.confidence", fmt.Sprintf("must be strictly between 0 and 1, got %g", cfg.Bootstrap.Confidence))
	}
	for name, size := range cfg.DatasetSizes {
		if size < 1 {
			add("dataset_sizes."+name, fmt.Sprintf("must be >= 1, got %d", size))
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
