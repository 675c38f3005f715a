// Package daemon manages the Stridr daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// Config holds all daemon configuration.
type Config struct {
	User          UserConfig          `toml:"user"`
	API           APIConfig           `toml:"api"`
	Sync          SyncConfig          `toml:"sync"`
	Notifications NotificationsConfig `toml:"notifications"`
	Telemetry     TelemetryConfig     `toml:"telemetry"`
	Logging       LoggingConfig       `toml:"logging"`
}

// UserConfig identifies the account this daemon serves.
type UserConfig struct {
	ID        string `toml:"id"`
	CreatedAt string `toml:"created_at"` // RFC 3339; floor for the first sync watermark
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SyncConfig controls the background reconciliation cadence.
type SyncConfig struct {
	Interval            string `toml:"interval"` // Go duration, default "1h"
	InactivityAfterDays int    `toml:"inactivity_after_days"`
}

// NotificationsConfig bounds dispatch volume.
type NotificationsConfig struct {
	MaxPerDay  int    `toml:"max_per_day"`
	QuietStart string `toml:"quiet_start"`
	QuietEnd   string `toml:"quiet_end"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := stridrHome()
	return Config{
		User: UserConfig{
			ID:        "",
			CreatedAt: "",
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8191,
		},
		Sync: SyncConfig{
			Interval:            "1h",
			InactivityAfterDays: 3,
		},
		Notifications: NotificationsConfig{
			MaxPerDay:  12,
			QuietStart: "22:00",
			QuietEnd:   "07:00",
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "stridr.log"),
		},
	}
}

// LoadConfig reads config from ~/.stridr/config.toml, falling back to
// defaults. A missing user id is generated and written back so the
// account identity is stable across restarts.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(stridrHome(), "config.toml")

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if cfg.User.ID == "" {
		cfg.User.ID = uuid.NewString()
		cfg.User.CreatedAt = time.Now().Format(time.RFC3339)
		if err := SaveConfig(cfg); err != nil {
			return cfg, fmt.Errorf("persist generated identity: %w", err)
		}
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.stridr/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(stridrHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// SyncInterval returns the parsed reconciliation cadence.
func (c Config) SyncInterval() time.Duration {
	d, err := time.ParseDuration(c.Sync.Interval)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// AccountCreatedAt returns the parsed watermark floor, falling back to
// the zero time when unset or malformed.
func (c Config) AccountCreatedAt() time.Time {
	t, err := time.Parse(time.RFC3339, c.User.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// stridrHome returns the Stridr data directory.
func stridrHome() string {
	if env := os.Getenv("STRIDR_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".stridr")
}

// StridrHome is exported for use by other packages.
func StridrHome() string {
	return stridrHome()
}
