package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the statements Migrate applies, in order. Each one must be
// safe to re-run.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS graph_events (
		id          UUID PRIMARY KEY,
		event_type  TEXT NOT NULL,
		node_id     TEXT,
		source_id   TEXT,
		target_id   TEXT,
		node_count  INTEGER NOT NULL DEFAULT 0,
		edge_count  INTEGER NOT NULL DEFAULT 0,
		stats       JSONB NOT NULL DEFAULT '{}'::jsonb,
		occurred_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS graph_events_occurred_at_idx ON graph_events (occurred_at DESC)`,
	`CREATE INDEX IF NOT EXISTS graph_events_node_id_idx ON graph_events (node_id)`,
}

// Migrate creates the tables used by the event history.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i, err)
		}
	}
	return nil
}
