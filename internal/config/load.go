package config

import (
	"fmt"
	"os"
	"strings"

	"hinteval/internal/task"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = ".hinteval.yml"

// Load reads, parses, normalizes, and validates a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the normalized configuration used when no config file
// exists.
func Default() Config {
	cfg := Config{}
	Normalize(&cfg)
	return cfg
}

// DatasetSize resolves the dataset size for an input file, preferring a
// configured override keyed by file stem over the task's built-in size.
func (cfg Config) DatasetSize(taskName, inputPath string) (int, error) {
	for name, size := range cfg.DatasetSizes {
		if name != "" && containsFold(inputPath, name) {
			return size, nil
		}
	}
	return task.DatasetSize(taskName, inputPath)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
