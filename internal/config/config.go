// Package config resolves engine and CLI settings from defaults, an
// optional .gantry.yaml file and GANTRY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/alexanderramin/gantry/internal/layout"
	"github.com/alexanderramin/gantry/internal/viewport"
)

const (
	EnvPrefix  = "GANTRY"
	ConfigName = ".gantry"
)

type Config struct {
	RowHeight       float64
	Sight           domain.SightType
	StartKey        string
	EndKey          string
	Lookahead       int
	DBPath          string
	LogEvents       bool
	HoverDelay      time.Duration
	ScrollInterval  time.Duration
	Timezone        string
	AutoScrollRate  float64
	AutoScrollSpace float64
	// File is the config file that was read, empty when none was found.
	File string
}

// DefaultConfig mirrors the engine defaults. DBPath is empty when no home
// directory is available.
func DefaultConfig() Config {
	return Config{
		RowHeight:       layout.DefaultRowHeight,
		Sight:           domain.SightDay,
		StartKey:        domain.DefaultStartKey,
		EndKey:          domain.DefaultEndKey,
		Lookahead:       viewport.DefaultLookahead,
		DBPath:          DefaultDBPath(),
		HoverDelay:      gantt.DefaultHoverDelay,
		ScrollInterval:  gantt.DefaultScrollInterval,
		Timezone:        "Local",
		AutoScrollRate:  drag.DefaultAutoScrollRate,
		AutoScrollSpace: drag.DefaultAutoScrollSpace,
	}
}

// DefaultDBPath is ~/.gantry/state.db.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gantry", "state.db")
}

// LoadConfig reads .gantry.yaml from dir (and GANTRY_CONFIG_PATH when
// set), then environment overrides. A missing file is not an error;
// unparsable values fall back to defaults.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if override := os.Getenv(EnvPrefix + "_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	if dir != "" {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else {
		cfg.File = v.ConfigFileUsed()
	}

	if s := v.GetString("row_height"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
			cfg.RowHeight = f
		}
	}
	if s := v.GetString("sight"); s != "" && domain.ValidSightTypes[domain.SightType(s)] {
		cfg.Sight = domain.SightType(s)
	}
	if s := v.GetString("start_key"); s != "" {
		cfg.StartKey = s
	}
	if s := v.GetString("end_key"); s != "" {
		cfg.EndKey = s
	}
	if s := v.GetString("lookahead"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			cfg.Lookahead = n
		}
	}
	if s := v.GetString("db_path"); s != "" {
		cfg.DBPath = s
	}
	if s := v.GetString("log_events"); s != "" {
		cfg.LogEvents, _ = strconv.ParseBool(s)
	}
	cfg.HoverDelay = duration(v.GetString("hover_delay"), cfg.HoverDelay)
	cfg.ScrollInterval = duration(v.GetString("scroll_interval"), cfg.ScrollInterval)
	if s := v.GetString("timezone"); s != "" {
		if _, err := time.LoadLocation(s); err == nil {
			cfg.Timezone = s
		}
	}
	if s := v.GetString("autoscroll_rate"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
			cfg.AutoScrollRate = f
		}
	}
	if s := v.GetString("autoscroll_space"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
			cfg.AutoScrollSpace = f
		}
	}
	return cfg, nil
}

func duration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// Location resolves Timezone, defaulting to the local zone.
func (c Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil && c.Timezone != "" {
		return loc
	}
	return time.Local
}

// EngineOptions applies the settings to engine defaults.
func (c Config) EngineOptions() gantt.Options {
	opts := gantt.DefaultOptions()
	opts.Location = c.Location()
	opts.StartKey = c.StartKey
	opts.EndKey = c.EndKey
	opts.RowHeight = c.RowHeight
	opts.Lookahead = c.Lookahead
	opts.HoverDelay = c.HoverDelay
	opts.ScrollInterval = c.ScrollInterval
	opts.AutoScroll.Rate = c.AutoScrollRate
	opts.AutoScroll.Space = c.AutoScrollSpace
	return opts
}
