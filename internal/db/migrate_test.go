package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := OpenDB(Memory)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestMigrate_Idempotent(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, Migrate(conn))
	require.NoError(t, Migrate(conn))
}

func TestMigrate_CreatesTables(t *testing.T) {
	conn := openTestDB(t)
	for _, table := range []string{"view_states", "collapsed_tasks"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_AddsColumnsToLegacySchema(t *testing.T) {
	conn, err := sql.Open("sqlite", Memory)
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	_, err = conn.Exec(`CREATE TABLE view_states (
		dataset TEXT PRIMARY KEY, sight TEXT NOT NULL, pan_date TEXT,
		panel_width REAL NOT NULL DEFAULT 500, updated_at TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO view_states (dataset, sight, updated_at) VALUES ('a.yaml', 'week', 'now')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(conn))

	var hidden int
	var scroll float64
	var sight string
	err = conn.QueryRow(`SELECT sight, panel_hidden, scroll_top FROM view_states WHERE dataset = 'a.yaml'`).Scan(&sight, &hidden, &scroll)
	require.NoError(t, err)
	assert.Equal(t, "week", sight, "existing rows survive")
	assert.Zero(t, hidden)
	assert.Zero(t, scroll)
}

func TestMigrate_SightConstraint(t *testing.T) {
	conn := openTestDB(t)
	_, err := conn.Exec(`INSERT INTO view_states (dataset, sight, updated_at) VALUES ('x', 'decade', 'now')`)
	assert.Error(t, err)
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	conn, err := OpenDB(path)
	require.NoError(t, err)
	require.NoError(t, conn.Close())
	assert.FileExists(t, path)
}
