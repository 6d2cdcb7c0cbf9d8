package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Statements are idempotent so it runs on every
// open; column additions tolerate an existing column.
func Migrate(conn *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := conn.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS view_states (
		dataset     TEXT PRIMARY KEY,
		sight       TEXT NOT NULL
		            CHECK(sight IN ('day','week','month','quarter','halfYear')),
		pan_date    TEXT,
		panel_width REAL NOT NULL DEFAULT 500,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS collapsed_tasks (
		dataset TEXT NOT NULL REFERENCES view_states(dataset) ON DELETE CASCADE,
		task_id TEXT NOT NULL,
		PRIMARY KEY (dataset, task_id)
	)`,

	`ALTER TABLE view_states ADD COLUMN panel_hidden INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE view_states ADD COLUMN scroll_top REAL NOT NULL DEFAULT 0`,

	`CREATE INDEX IF NOT EXISTS idx_view_states_updated ON view_states(updated_at)`,
}
