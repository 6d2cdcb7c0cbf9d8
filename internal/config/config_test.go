package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantry/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 38.0, cfg.RowHeight)
	assert.Equal(t, domain.SightDay, cfg.Sight)
	assert.Equal(t, 5*time.Millisecond, cfg.HoverDelay)
	assert.Equal(t, 100*time.Millisecond, cfg.ScrollInterval)
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLoadConfig_NoFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.File)
	assert.Equal(t, 5, cfg.Lookahead)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "row_height: 24\nsight: week\nstart_key: from\nhover_delay: 20ms\ntimezone: UTC\nlookahead: 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gantry.yaml"), []byte(yaml), 0o644))
	t.Setenv("GANTRY_SIGHT", "month")
	t.Setenv("GANTRY_LOG_EVENTS", "true")
	t.Setenv("GANTRY_DB_PATH", "/tmp/state.db")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".gantry.yaml"), cfg.File)
	assert.Equal(t, 24.0, cfg.RowHeight)
	assert.Equal(t, domain.SightMonth, cfg.Sight, "env wins over the file")
	assert.Equal(t, "from", cfg.StartKey)
	assert.Equal(t, domain.DefaultEndKey, cfg.EndKey)
	assert.Equal(t, 20*time.Millisecond, cfg.HoverDelay)
	assert.Equal(t, 3, cfg.Lookahead)
	assert.True(t, cfg.LogEvents)
	assert.Equal(t, "/tmp/state.db", cfg.DBPath)
	assert.Equal(t, time.UTC, cfg.Location())

	opts := cfg.EngineOptions()
	assert.Equal(t, 24.0, opts.RowHeight)
	assert.Equal(t, "from", opts.StartKey)
	assert.Equal(t, time.UTC, opts.Location)
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("GANTRY_ROW_HEIGHT", "-4")
	t.Setenv("GANTRY_SIGHT", "decade")
	t.Setenv("GANTRY_LOOKAHEAD", "zero")
	t.Setenv("GANTRY_SCROLL_INTERVAL", "soon")
	t.Setenv("GANTRY_TIMEZONE", "Mars/Olympus")
	t.Setenv("GANTRY_AUTOSCROLL_RATE", "0")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	def := DefaultConfig()
	assert.Equal(t, def.RowHeight, cfg.RowHeight)
	assert.Equal(t, def.Sight, cfg.Sight)
	assert.Equal(t, def.Lookahead, cfg.Lookahead)
	assert.Equal(t, def.ScrollInterval, cfg.ScrollInterval)
	assert.Equal(t, def.Timezone, cfg.Timezone)
	assert.Equal(t, def.AutoScrollRate, cfg.AutoScrollRate)
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gantry.yaml"), []byte("row_height: [1"), 0o644))
	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "reading config")
}
