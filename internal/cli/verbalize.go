package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"hinteval/internal/hint"
	"hinteval/internal/record"
)

const judgePromptsFile = "verbalization_prompts.jsonl"

// runVerbalizePrompts builds the handler for the verbalize-prompts command.
func runVerbalizePrompts(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to .hinteval.yml (default: current directory)")
		outputDir := fs.String("output-dir", "", "Override output directory")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "Usage: hinteval verbalize-prompts <changed.jsonl>")
			return ExitUsage
		}

		cfg, err := resolveConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		if *outputDir != "" {
			cfg.OutputDir = *outputDir
		}

		changed, err := record.LoadChanged(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load %s: %v\n", fs.Arg(0), err)
			return ExitError
		}

		prompts := hint.BuildJudgePrompts(changed)
		outPath := filepath.Join(cfg.OutputDir, judgePromptsFile)
		if err := writeJSONL(outPath, func(f *os.File) error {
			return record.WriteJSONL(f, prompts)
		}); err != nil {
			fmt.Fprintf(stderr, "Failed to write judge prompts: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Wrote %d judge prompts to %s\n", len(prompts), outPath)
		return ExitOK
	}
}
