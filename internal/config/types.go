// Package config loads and validates the .hinteval.yml project file.
package config

import (
	"fmt"
	"strings"
)

// Config is the parsed .hinteval.yml document.
type Config struct {
	Version   int    `yaml:"version"`
	Task      string `yaml:"task"`
	OutputDir string `yaml:"output_dir"`
	Database  string `yaml:"database"`

	Bootstrap Bootstrap `yaml:"bootstrap"`

	// DatasetSizes overrides the built-in dataset sizes per input file stem.
	DatasetSizes map[string]int `yaml:"dataset_sizes"`

	// StrictHinted turns missing hinted_answer fields into hard errors
	// instead of counted gold-answer fallbacks.
	StrictHinted bool `yaml:"strict_hinted"`
}

// Bootstrap holds the resampling settings shared by every command.
type Bootstrap struct {
	Samples    int     `yaml:"samples"`
	Seed       uint64  `yaml:"seed"`
	Confidence float64 `yaml:"confidence"`
}

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}
