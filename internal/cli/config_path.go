package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"hinteval/internal/config"
)

// resolveConfig loads the config from an explicit path, or from the default
// location when present. With no config file the built-in defaults apply.
func resolveConfig(path string) (config.Config, error) {
	if strings.TrimSpace(path) != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("resolve config path: %w", err)
		}
		return config.Load(abs)
	}
	if _, err := os.Stat(config.DefaultPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return config.Config{}, fmt.Errorf("stat config: %w", err)
	}
	return config.Load(config.DefaultPath)
}
