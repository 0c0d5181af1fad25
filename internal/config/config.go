// Package config loads client configuration from YAML with environment
// overrides, in that order, then validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL      = "http://localhost:8000/api"
	defaultPollInterval = "2s"
	defaultTimeout      = "30s"
)

// Config is the client configuration.
type Config struct {
	BaseURL      string `yaml:"baseURL"`
	PollInterval string `yaml:"pollInterval"`
	Timeout      string `yaml:"timeout"`
	LogLevel     string `yaml:"logLevel"`
	Theme        string `yaml:"theme"`
	// StateDir holds session state and the question cache. Defaults to the
	// config file's directory.
	StateDir string `yaml:"stateDir"`
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "examforge.yaml"
	}
	return filepath.Join(dir, "examforge", "config.yaml")
}

// Load reads config from path. A missing file is fine: defaults plus
// environment apply. EXAMFORGE_* variables override file values.
func Load(path string) (Config, error) {
	cfg := Config{
		BaseURL:      defaultBaseURL,
		PollInterval: defaultPollInterval,
		Timeout:      defaultTimeout,
		LogLevel:     "warn",
		Theme:        "light",
	}
	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if cfg.StateDir == "" {
		cfg.StateDir = filepath.Dir(path)
	}
	if v := os.Getenv("EXAMFORGE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("EXAMFORGE_POLL_INTERVAL"); v != "" {
		cfg.PollInterval = v
	}
	if v := os.Getenv("EXAMFORGE_TIMEOUT"); v != "" {
		cfg.Timeout = v
	}
	if v := os.Getenv("EXAMFORGE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("EXAMFORGE_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("EXAMFORGE_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config back to path, creating directories as needed.
// Used when a persisted setting (theme) changes.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.BaseURL == "" {
		return errors.New("config: baseURL is required (set in config.yaml or EXAMFORGE_BASE_URL)")
	}
	if d, err := time.ParseDuration(cfg.PollInterval); err != nil || d <= 0 {
		return fmt.Errorf("config: invalid pollInterval %q", cfg.PollInterval)
	}
	if d, err := time.ParseDuration(cfg.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("config: invalid timeout %q", cfg.Timeout)
	}
	return nil
}

// PollIntervalDuration returns the parsed poll interval. Load validated it.
func (c Config) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// TimeoutDuration returns the parsed request timeout.
func (c Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// SessionDir returns where session state lives.
func (c Config) SessionDir() string { return c.StateDir }

// CachePath returns the question cache database location.
func (c Config) CachePath() string { return filepath.Join(c.StateDir, "cache.db") }
