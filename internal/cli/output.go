package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"hinteval/internal/bootstrap"
	"hinteval/internal/config"
)

// writeJSON writes an indented JSON document, creating parent directories.
func writeJSON(path string, doc interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// writeJSONL writes records as JSON lines, creating parent directories.
func writeJSONL(path string, write func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// sharedFlags are the options common to the statistics commands.
type sharedFlags struct {
	configPath string
	taskName   string
	outputDir  string
	seed       uint64
	samples    int
	confidence float64
	noColor    bool
}

func (sf *sharedFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&sf.configPath, "config", "", "Path to .hinteval.yml (default: current directory)")
	fs.StringVar(&sf.taskName, "task", "", "Task name (gpqa or mmlu_pro)")
	fs.StringVar(&sf.outputDir, "output-dir", "", "Override output directory")
	fs.Uint64Var(&sf.seed, "seed", 0, "Bootstrap seed (default from config)")
	fs.IntVar(&sf.samples, "samples", 0, "Bootstrap resample count (default from config)")
	fs.Float64Var(&sf.confidence, "confidence", 0, "Confidence level (default from config)")
	fs.BoolVar(&sf.noColor, "no-color", false, "Disable ANSI colors")
}

// resolve merges flag overrides into the loaded config and returns it with a
// seeded bootstrap engine.
func (sf *sharedFlags) resolve() (config.Config, *bootstrap.Engine, error) {
	cfg, err := resolveConfig(sf.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if sf.taskName != "" {
		cfg.Task = sf.taskName
	}
	if sf.outputDir != "" {
		cfg.OutputDir = sf.outputDir
	}
	if sf.seed != 0 {
		cfg.Bootstrap.Seed = sf.seed
	}
	if sf.samples != 0 {
		cfg.Bootstrap.Samples = sf.samples
	}
	if sf.confidence != 0 {
		cfg.Bootstrap.Confidence = sf.confidence
	}
	if err := config.Validate(&cfg); err != nil {
		return config.Config{}, nil, err
	}
	eng := bootstrap.New(cfg.Bootstrap.Samples, cfg.Bootstrap.Confidence, cfg.Bootstrap.Seed)
	return cfg, eng, nil
}
