// Package config provides configuration loading and validation for the
// screening service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Default limits applied when neither the config file nor the environment
// sets them.
const (
	DefaultAddr        = ":8080"
	DefaultMaxUploadMB = 10
)

// Config is the service configuration. It can be loaded from a JSON file,
// from the environment, or both; explicit values win over defaults.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `json:"addr,omitempty"`
	// DatabaseURL is the PostgreSQL connection URL.
	DatabaseURL string `json:"database_url,omitempty"`
	// LogLevel selects the zap level: debug, info, warn or error.
	LogLevel string `json:"log_level,omitempty"`
	// MaxUploadMB caps the size of uploaded resume files.
	MaxUploadMB int `json:"max_upload_mb,omitempty"`
	// Verbose enables detailed debug output in the CLI.
	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables: CVSCREEN_ADDR,
// DATABASE_URL, LOG_LEVEL and MAX_UPLOAD_MB. Unset variables leave the zero
// value so MergeWithDefaults can fill them.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:        os.Getenv("CVSCREEN_ADDR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}

	if raw := os.Getenv("MAX_UPLOAD_MB"); raw != "" {
		mb, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %v", err)
		}
		cfg.MaxUploadMB = mb
	}

	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("config error: 'max_upload_mb' must be non-negative")
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: unknown log level %q", c.LogLevel)
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Addr == "" {
		result.Addr = defaults.Addr
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.MaxUploadMB == 0 {
		result.MaxUploadMB = defaults.MaxUploadMB
	}

	if result.Addr == "" {
		result.Addr = DefaultAddr
	}
	if result.MaxUploadMB == 0 {
		result.MaxUploadMB = DefaultMaxUploadMB
	}

	return result
}
