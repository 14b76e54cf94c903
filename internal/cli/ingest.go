package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"hinteval/internal/detect"
	"hinteval/internal/duckdb"
	"hinteval/internal/record"
)

// ingestChanges is a test seam for the database write path.
var ingestChanges = doIngestChanges

// runIngest builds the handler for the ingest command.
func runIngest(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		var shared sharedFlags
		shared.register(fs)
		dbPath := fs.String("db", "", "DuckDB database path (default from config)")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() != 2 {
			fmt.Fprintln(stderr, "Usage: hinteval ingest <before.jsonl> <after.jsonl> --db <runs.duckdb>")
			return ExitUsage
		}
		beforePath, afterPath := fs.Arg(0), fs.Arg(1)

		cfg, eng, err := shared.resolve()
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		database := *dbPath
		if database == "" {
			database = cfg.Database
		}
		if database == "" {
			fmt.Fprintln(stderr, "Missing --db (no database configured)")
			return ExitUsage
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
			StrictHinted: cfg.StrictHinted,
			Warnings:     stderr,
		})
		if err != nil {
			fmt.Fprintf(stderr, "Change detection failed: %v\n", err)
			return ExitError
		}
		stats := detect.ComputeStats(det, eng)

		input := duckdb.RunInput{
			Kind:       "changes",
			Task:       cfg.Task,
			BeforePath: beforePath,
			AfterPath:  afterPath,
			Seed:       cfg.Bootstrap.Seed,
			Samples:    cfg.Bootstrap.Samples,
			Confidence: cfg.Bootstrap.Confidence,
		}
		runID, err := ingestChanges(context.Background(), database, input, stats, det.Outcomes)
		if err != nil {
			fmt.Fprintf(stderr, "Ingest failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Recorded run %s in %s\n", runID, database)
		return ExitOK
	}
}

func doIngestChanges(ctx context.Context, database string, input duckdb.RunInput, stats detect.ChangeStats, outcomes []detect.Outcome) (string, error) {
	db, err := duckdb.Open(ctx, database)
	if err != nil {
		return "", err
	}
	defer func() { _ = db.Close() }()

	if err := duckdb.EnsureSchema(db); err != nil {
		return "", fmt.Errorf("apply schema: %w", err)
	}
	runID, err := duckdb.UpsertRun(ctx, db, input)
	if err != nil {
		return "", err
	}
	metrics, err := duckdb.FlattenMetrics(stats)
	if err != nil {
		return "", err
	}
	if err := duckdb.ReplaceMetrics(ctx, db, runID, metrics); err != nil {
		return "", err
	}
	if err := duckdb.ReplaceOutcomes(ctx, db, runID, outcomes); err != nil {
		return "", err
	}
	return runID, nil
}
