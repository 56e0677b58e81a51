// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config with defaults; Load layers a file and env on top.
// - Validation failures wrap ErrInvalidConfig, load failures ErrLoadConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/peloton/internal/domain/archetype"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log lines to JSON.
	LogJSON bool `koanf:"log_json"`

	// LogFile, when set, also writes logs to a rotating file.
	LogFile       string `koanf:"log_file"`
	LogMaxSizeMB  int    `koanf:"log_max_size_mb"`
	LogMaxBackups int    `koanf:"log_max_backups"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir holds teams.csv, riders.csv, division.csv, races.csv and country.csv.
	DataDir string `koanf:"data_dir"`

	// StaticDir, when set, is served at / for the browser pages.
	StaticDir string `koanf:"static_dir"`

	// DBPath is the SQLite file holding news and signups.
	DBPath string `koanf:"db_path"`

	// WorkerCount sets the number of evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory evaluation queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize bounds the id tracker used while building the dataset.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /api/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// SeasonYear is the season the league is played in.
	SeasonYear int `koanf:"season_year"`

	// WriteRatePerMinute and WriteBurst size the per-client limiter on
	// POST endpoints.
	WriteRatePerMinute int `koanf:"write_rate_per_minute"`
	WriteBurst         int `koanf:"write_burst"`

	// ArchetypeOverrides pins the archetype of rider ids, e.g. {"r42": "Climber"}.
	ArchetypeOverrides map[string]string `koanf:"archetype_overrides"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogMaxSizeMB:        20,
		LogMaxBackups:       5,
		Addr:                ":9080",
		DataDir:             "./data",
		DBPath:              "./pcm.db",
		WorkerCount:         runtime.NumCPU() * 2,
		QueueSize:           10_000,
		DedupeSize:          100_000,
		MaxLeaderboardLimit: 100,
		SeasonYear:          1992,
		WriteRatePerMinute:  30,
		WriteBurst:          5,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DataDir) == "":
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	case c.WriteRatePerMinute < 0 || c.WriteBurst < 0:
		return fmt.Errorf("%w: write limits must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Overrides(); err != nil {
		return err
	}
	return nil
}

// Overrides parses ArchetypeOverrides.
func (c *Config) Overrides() (map[string]archetype.Archetype, error) {
	out := make(map[string]archetype.Archetype, len(c.ArchetypeOverrides))
	for id, label := range c.ArchetypeOverrides {
		a, err := archetype.Parse(label)
		if err != nil {
			return nil, fmt.Errorf("%w: archetype_overrides[%s]: %w", ErrInvalidConfig, id, err)
		}
		out[id] = a
	}
	return out, nil
}
