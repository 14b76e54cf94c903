package cli

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"hinteval/internal/accuracy"
	"hinteval/internal/record"
	"hinteval/internal/report"
)

const accuracyResultsFile = "accuracy.json"

// runAccuracy builds the handler for the accuracy command.
func runAccuracy(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		var shared sharedFlags
		shared.register(fs)
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "Usage: hinteval accuracy <records.jsonl>")
			return ExitUsage
		}

		cfg, eng, err := shared.resolve()
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		records, err := record.LoadRecords(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load %s: %v\n", fs.Arg(0), err)
			return ExitError
		}

		res, err := accuracy.Evaluate(records, eng, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Accuracy scoring failed: %v\n", err)
			return ExitError
		}

		outPath := filepath.Join(cfg.OutputDir, accuracyResultsFile)
		if err := writeJSON(outPath, res); err != nil {
			fmt.Fprintf(stderr, "Failed to write results: %v\n", err)
			return ExitError
		}

		report.RenderAccuracy(stdout, res, report.NewStyles(shared.noColor))
		fmt.Fprintf(stdout, "Results: %s\n", outPath)
		return ExitOK
	}
}
