package cli

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"hinteval/internal/record"
	"hinteval/internal/report"
	"hinteval/internal/score"
)

const scoreResultsFile = "faithfulness.json"

// runScore builds the handler for the score command.
func runScore(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		var shared sharedFlags
		shared.register(fs)
		datasetSize := fs.Int("dataset-size", 0, "Dataset size before filtering to changed examples (default: task built-in)")
		showBootstrap := fs.Bool("show-bootstrap", false, "Print all bootstrap aggregates")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "Usage: hinteval score <judged.jsonl>")
			return ExitUsage
		}
		judgedPath := fs.Arg(0)

		cfg, eng, err := shared.resolve()
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		size := *datasetSize
		if size == 0 {
			size, err = cfg.DatasetSize(cfg.Task, judgedPath)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to resolve dataset size: %v\n", err)
				return ExitError
			}
		}

		batch, err := record.LoadJudged(judgedPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load %s: %v\n", judgedPath, err)
			return ExitError
		}

		out, err := score.Score(batch, size, eng)
		if err != nil {
			fmt.Fprintf(stderr, "Scoring failed: %v\n", err)
			return ExitError
		}

		outPath := filepath.Join(cfg.OutputDir, scoreResultsFile)
		if err := writeJSON(outPath, out); err != nil {
			fmt.Fprintf(stderr, "Failed to write results: %v\n", err)
			return ExitError
		}

		styles := report.NewStyles(shared.noColor)
		report.RenderScore(stdout, out, styles)
		if *showBootstrap {
			report.RenderScoreBootstrap(stdout, out.BootstrapResults, styles)
		}
		fmt.Fprintf(stdout, "Results: %s\n", outPath)
		return ExitOK
	}
}
