package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ask_history (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		source TEXT NOT NULL,
		kpi_count INT NOT NULL DEFAULT 0,
		insight_count INT NOT NULL DEFAULT 0,
		chart_count INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS ask_history_created_at_idx ON ask_history(created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS column_mappings (
		signature TEXT PRIMARY KEY,
		mapping JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the history and mapping tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
