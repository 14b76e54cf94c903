// Package duckdb persists evaluation runs, their metrics and per-example
// outcomes in a DuckDB database.
package duckdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"hinteval/internal/detect"
)

// Open opens a DuckDB database at path and verifies the connection.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	return db, nil
}

// RunInput describes one evaluation run to record.
type RunInput struct {
	Kind       string
	Task       string
	BeforePath string
	AfterPath  string
	Seed       uint64
	Samples    int
	Confidence float64
}

// RunKey returns a deterministic fingerprint for a run record, so the same
// inputs and settings upsert the same row.
func RunKey(input RunInput) (string, error) {
	payload := map[string]interface{}{
		"kind":        input.Kind,
		"task":        input.Task,
		"before_path": input.BeforePath,
		"after_path":  input.AfterPath,
		"seed":        input.Seed,
		"samples":     input.Samples,
		"confidence":  input.Confidence,
	}
	return FingerprintJSON(payload)
}

// UpsertRun inserts a run by its fingerprint key and returns its id. An
// existing run with the same key is reused.
func UpsertRun(ctx context.Context, db *sql.DB, input RunInput) (string, error) {
	if db == nil {
		return "", errors.New("duckdb: db is nil")
	}
	if input.Kind == "" {
		return "", errors.New("duckdb: run kind is required")
	}
	key, err := RunKey(input)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if _, err := db.ExecContext(
		ctx,
		`INSERT INTO runs (
		   run_id, run_key, kind, task, before_path, after_path,
		   seed, n_bootstrap_samples, confidence_level, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, now())
		 ON CONFLICT (run_key) DO NOTHING`,
		id,
		key,
		input.Kind,
		input.Task,
		nullableString(input.BeforePath),
		nullableString(input.AfterPath),
		input.Seed,
		input.Samples,
		input.Confidence,
	); err != nil {
		return "", fmt.Errorf("upsert run: %w", err)
	}
	return lookupID(ctx, db, "runs", "run_id", "run_key", key)
}

// ReplaceMetrics replaces all metrics for a run.
func ReplaceMetrics(ctx context.Context, db *sql.DB, runID string, metrics map[string]float64) error {
	if db == nil {
		return errors.New("duckdb: db is nil")
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM metrics WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("clear metrics: %w", err)
	}
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := db.ExecContext(
			ctx,
			`INSERT INTO metrics (run_id, name, value) VALUES (?, ?, ?)`,
			runID, name, metrics[name],
		); err != nil {
			return fmt.Errorf("insert metric %s: %w", name, err)
		}
	}
	return nil
}

// ReplaceOutcomes replaces all per-example outcomes for a run.
func ReplaceOutcomes(ctx context.Context, db *sql.DB, runID string, outcomes []detect.Outcome) error {
	if db == nil {
		return errors.New("duckdb: db is nil")
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM outcomes WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("clear outcomes: %w", err)
	}
	for _, o := range outcomes {
		if _, err := db.ExecContext(
			ctx,
			`INSERT INTO outcomes (
			   run_id, instance_id, answer_before, answer_after,
			   hinted_answer, changed, changed_to_hinted
			 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID,
			o.InstanceID,
			nullableString(o.PredictedBefore),
			nullableString(o.PredictedAfter),
			nullableString(o.HintedAnswer),
			o.Changed,
			o.ChangedToHinted,
		); err != nil {
			return fmt.Errorf("insert outcome %s: %w", o.InstanceID, err)
		}
	}
	return nil
}

// Metrics loads the metric map for a run.
func Metrics(ctx context.Context, db *sql.DB, runID string) (map[string]float64, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, value FROM metrics WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()
	out := map[string]float64{}
	for rows.Next() {
		var name string
		var value float64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		out[name] = value
	}
	return out, rows.Err()
}

// FlattenMetrics converts a result document into flat metric names. Nested
// objects join their path with dots; non-numeric fields are skipped.
func FlattenMetrics(doc interface{}) (map[string]float64, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("flatten metrics: %w", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("flatten metrics: %w", err)
	}
	out := map[string]float64{}
	flattenInto(out, "", decoded)
	return out, nil
}

func flattenInto(out map[string]float64, prefix string, value interface{}) {
	switch v := value.(type) {
	case float64:
		out[prefix] = v
	case map[string]interface{}:
		for key, inner := range v {
			name := key
			if prefix != "" {
				name = prefix + "." + key
			}
			flattenInto(out, name, inner)
		}
	case []interface{}:
		for i, inner := range v {
			flattenInto(out, fmt.Sprintf("%s[%d]", prefix, i), inner)
		}
	}
}
