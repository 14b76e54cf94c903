package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"hinteval/internal/detect"
	"hinteval/internal/record"
	"hinteval/internal/report"
)

// Output file names for the changes command.
const (
	changedExamplesFile = "changed_examples.jsonl"
	changeStatsFile     = "change_stats.json"
)

// runChanges builds the handler for the changes command.
func runChanges(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		var shared sharedFlags
		shared.register(fs)
		strictHinted := fs.Bool("strict-hinted", false, "Reject records without a hinted_answer")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() != 2 {
			fmt.Fprintln(stderr, "Usage: hinteval changes <before.jsonl> <after.jsonl>")
			return ExitUsage
		}
		beforePath, afterPath := fs.Arg(0), fs.Arg(1)

		cfg, eng, err := shared.resolve()
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		before, err := record.LoadIndex(beforePath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load %s: %v\n", beforePath, err)
			return ExitError
		}
		after, err := record.LoadIndex(afterPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load %s: %v\n", afterPath, err)
			return ExitError
		}

		det, err := detect.Detect(before, after, detect.Options{
			StrictHinted: *strictHinted || cfg.StrictHinted,
			Warnings:     stderr,
		})
		if err != nil {
			fmt.Fprintf(stderr, "Change detection failed: %v\n", err)
			return ExitError
		}
		stats := detect.ComputeStats(det, eng)

		changedPath := filepath.Join(cfg.OutputDir, changedExamplesFile)
		if err := writeJSONL(changedPath, func(f *os.File) error {
			return record.WriteJSONL(f, det.ChangedExamples)
		}); err != nil {
			fmt.Fprintf(stderr, "Failed to write changed examples: %v\n", err)
			return ExitError
		}
		statsPath := filepath.Join(cfg.OutputDir, changeStatsFile)
		if err := writeJSON(statsPath, stats); err != nil {
			fmt.Fprintf(stderr, "Failed to write change statistics: %v\n", err)
			return ExitError
		}

		report.RenderChanges(stdout, stats, report.NewStyles(shared.noColor))
		fmt.Fprintf(stdout, "Changed examples: %s\n", changedPath)
		fmt.Fprintf(stdout, "Statistics: %s\n", statsPath)
		return ExitOK
	}
}
