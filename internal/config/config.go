package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/papapumpkin/qadash/internal/viewmode"
)

// ErrInvalidConfig indicates a configuration value outside its valid range.
var ErrInvalidConfig = errors.New("invalid configuration")

// ServeConfig holds configuration for the headless control server.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// StatusConfig holds notification display settings.
type StatusConfig struct {
	DurationSeconds float64 `mapstructure:"duration_seconds"`
}

// Config holds all runtime configuration for a qadash session.
// Values are populated from .qadash.yaml, QADASH_* env vars, and CLI flags.
type Config struct {
	Repository    string       `mapstructure:"repository"`
	Tract         string       `mapstructure:"tract"`
	Table         string       `mapstructure:"table"`
	LogLevel      string       `mapstructure:"log_level"`
	LogFile       string       `mapstructure:"log_file"`
	TelemetryPath string       `mapstructure:"telemetry_path"`
	Watch         bool         `mapstructure:"watch"`
	DefaultView   string       `mapstructure:"default_view"`
	Serve         ServeConfig  `mapstructure:"serve"`
	Status        StatusConfig `mapstructure:"status"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags. The result is
// validated before it is returned.
func Load() (Config, error) {
	viper.SetDefault("repository", "")
	viper.SetDefault("tract", "")
	viper.SetDefault("table", "")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", "dashboard.log")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("watch", false)
	viper.SetDefault("default_view", "aggregated")
	viper.SetDefault("serve.addr", "127.0.0.1:8393")
	viper.SetDefault("status.duration_seconds", 5.0)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown view modes and negative durations.
func (c Config) Validate() error {
	if _, err := viewmode.ParseMode(c.DefaultView); err != nil {
		return fmt.Errorf("%w: default_view: %w", ErrInvalidConfig, err)
	}
	if c.Status.DurationSeconds < 0 {
		return fmt.Errorf("%w: status.duration_seconds must not be negative, got %g", ErrInvalidConfig, c.Status.DurationSeconds)
	}
	return nil
}

// ViewMode returns the configured initial view mode. Invalid names fall back
// to aggregated; Load has already rejected them.
func (c Config) ViewMode() viewmode.Mode {
	m, err := viewmode.ParseMode(c.DefaultView)
	if err != nil {
		return viewmode.Aggregated
	}
	return m
}

// StatusDuration returns the default notification duration.
func (c Config) StatusDuration() time.Duration {
	return time.Duration(c.Status.DurationSeconds * float64(time.Second))
}
