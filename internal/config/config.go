// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - All loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// MaxSessions caps live sessions; the least recently used one is
	// evicted when a new session would exceed it. 0 means no cap.
	MaxSessions int `koanf:"max_sessions" validate:"gte=0"`

	// SessionTTL removes sessions idle for longer than this. 0 disables it.
	SessionTTL time.Duration `koanf:"session_ttl" validate:"gte=0"`

	// SweepInterval is how often idle sessions are looked for.
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"gt=0"`

	// DedupeSize bounds the remembered score submission ids per session.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit" validate:"gte=1"`

	// SeedFile optionally points at a YAML roster every new session starts from.
	SeedFile string `koanf:"seed_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		MaxSessions:         1_000,
		SessionTTL:          time.Hour,
		SweepInterval:       time.Minute,
		DedupeSize:          10_000,
		MaxLeaderboardLimit: 100,
	}
}
