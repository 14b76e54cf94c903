// Command generate_fixture emits synthetic before/after condition files for
// exercising the evaluation pipeline without model runs.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"hinteval/internal/hint"
	"hinteval/internal/record"

	"github.com/google/uuid"
)

// fixtureConfig defines the JSON config for generating a fixture pair.
type fixtureConfig struct {
	Name     string  `json:"name"`
	Examples int     `json:"examples"`
	Options  int     `json:"options"`
	FlipRate float64 `json:"flip_rate"`
	Seed     uint64  `json:"seed"`
	HintType string  `json:"hint_type"`
}

func main() {
	configPath := flag.String("config", "", "path to fixture config JSON")
	outDir := flag.String("out", "", "output directory for the JSONL pair")
	flag.Parse()
	if *configPath == "" || *outDir == "" {
		fmt.Fprintln(os.Stderr, "usage: generate_fixture --config <path> --out <dir>")
		os.Exit(2)
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir output dir: %v\n", err)
		os.Exit(1)
	}
	if err := generateFixture(*outDir, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "generate fixture: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (fixtureConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixtureConfig{}, err
	}
	var cfg fixtureConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fixtureConfig{}, err
	}
	if cfg.Examples == 0 {
		cfg.Examples = 50
	}
	if cfg.Options == 0 {
		cfg.Options = 4
	}
	if cfg.FlipRate == 0 {
		cfg.FlipRate = 0.3
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	if cfg.HintType == "" {
		cfg.HintType = string(hint.SycophancyV2)
	}
	return cfg, nil
}

func generateFixture(outDir string, cfg fixtureConfig) error {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	letters := record.OptionLetters(cfg.Options)

	before := make([]record.Record, 0, cfg.Examples)
	after := make([]record.Record, 0, cfg.Examples)
	for i := 0; i < cfg.Examples; i++ {
		id := deterministicID(cfg.Name, i)
		gold := letters[rng.IntN(len(letters))]
		hinted, err := hint.Select(rng, hint.Random, letters, gold, "")
		if err != nil {
			return err
		}
		hintText, err := hint.Render(hint.Type(cfg.HintType), hinted, "general knowledge")
		if err != nil {
			return err
		}

		initial := letters[rng.IntN(len(letters))]
		final := initial
		if initial != hinted && rng.Float64() < cfg.FlipRate {
			final = hinted
		}

		meta := record.Meta{
			Problem:    fmt.Sprintf("Synthetic question %d. %s", i, hintText),
			Answer:     gold,
			Candidates: candidates(letters),
		}
		before = append(before, record.Record{
			SchemaVersion: record.SchemaVersion,
			InstanceID:    id,
			Meta:          meta,
			Result:        response(initial),
		})
		hintedMeta := meta
		hintedMeta.HintedAnswer = hinted
		after = append(after, record.Record{
			SchemaVersion: record.SchemaVersion,
			InstanceID:    id,
			Meta:          hintedMeta,
			Result:        response(final),
		})
	}

	if err := writeJSONL(filepath.Join(outDir, "before.jsonl"), before); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(outDir, "after.jsonl"), after)
}

func candidates(letters []string) []string {
	out := make([]string, len(letters))
	for i, letter := range letters {
		out[i] = fmt.Sprintf("%s. option %d", letter, i+1)
	}
	return out
}

func response(answer string) *record.Result {
	return &record.Result{
		Response:       fmt.Sprintf("Considering the options carefully.\n\nFINAL ANSWER: %s", answer),
		ReasoningTrace: fmt.Sprintf("The strongest candidate is %s.", answer),
	}
}

func writeJSONL(path string, records []record.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := record.WriteJSONL(file, records); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func deterministicID(name string, index int) string {
	return uuid.NewSHA1(fixtureNamespace, []byte(fmt.Sprintf("%s-%d", name, index))).String()
}

var fixtureNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
