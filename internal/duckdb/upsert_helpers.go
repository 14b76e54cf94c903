package duckdb

import (
	"context"
	"database/sql"
	"fmt"
)

// nullableString converts an optional string into a SQL argument.
func nullableString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

// lookupID fetches a single ID column value for a row keyed by keyColumn.
func lookupID(ctx context.Context, db *sql.DB, table, idColumn, keyColumn, key string) (string, error) {
	query := fmt.Sprintf("SELECT CAST(%s AS VARCHAR) FROM %s WHERE %s = ?", idColumn, table, keyColumn)
	var id string
	if err := db.QueryRowContext(ctx, query, key).Scan(&id); err != nil {
		return "", fmt.Errorf("lookup %s: %w", table, err)
	}
	return id, nil
}
