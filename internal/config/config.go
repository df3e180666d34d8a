// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults used when neither the config file, the environment nor a flag set
// a value.
const (
	DefaultPort            = 8080
	DefaultDriver          = "sqlite"
	DefaultSQLitePath      = "resumes.db"
	DefaultRequestTimeout  = "30s"
	DefaultMaxUploadBytes  = 10 << 20
	DefaultMaxBatchWorkers = 4
)

// Config represents the configuration that can be loaded from a JSON or YAML
// file. All fields are optional.
type Config struct {
	// Persistence service client
	APIBaseURL     string `json:"api_base_url,omitempty" yaml:"api_base_url,omitempty" validate:"omitempty,url"`
	AuthToken      string `json:"auth_token,omitempty" yaml:"auth_token,omitempty"`
	RequestTimeout string `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"` // Go duration, e.g. "30s"
	UserID         string `json:"user_id,omitempty" yaml:"user_id,omitempty"`

	// Storage
	DatabaseURL    string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	DatabaseDriver string `json:"database_driver,omitempty" yaml:"database_driver,omitempty" validate:"omitempty,oneof=pgx postgres sqlite"`
	SQLitePath     string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`

	// Server and import limits
	Port            int   `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=0,lte=65535"`
	MaxUploadBytes  int64 `json:"max_upload_bytes,omitempty" yaml:"max_upload_bytes,omitempty" validate:"gte=0"`
	MaxBatchWorkers int   `json:"max_batch_workers,omitempty" yaml:"max_batch_workers,omitempty" validate:"gte=0,lte=64"`

	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		RequestTimeout:  DefaultRequestTimeout,
		DatabaseDriver:  DefaultDriver,
		SQLitePath:      DefaultSQLitePath,
		Port:            DefaultPort,
		MaxUploadBytes:  DefaultMaxUploadBytes,
		MaxBatchWorkers: DefaultMaxBatchWorkers,
	}
}

// LoadConfig loads configuration from a JSON (.json) or YAML (.yaml, .yml)
// file. Returns an error if the file cannot be read or parsed.
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
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv fills empty fields from the environment: DATABASE_URL,
// DATABASE_DRIVER, RESUME_API_BASE, RESUME_API_TOKEN and PORT.
func (c *Config) ApplyEnv() {
	setFromEnv(&c.DatabaseURL, "DATABASE_URL")
	setFromEnv(&c.DatabaseDriver, "DATABASE_DRIVER")
	setFromEnv(&c.APIBaseURL, "RESUME_API_BASE")
	setFromEnv(&c.AuthToken, "RESUME_API_TOKEN")
	if c.Port == 0 {
		if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
			c.Port = p
		}
	}
}

func setFromEnv(dst *string, key string) {
	if *dst == "" {
		*dst = os.Getenv(key)
	}
}

// Validate checks that the configuration has valid values. Required fields
// are checked by the commands that need them.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.RequestTimeout != "" {
		d, err := time.ParseDuration(c.RequestTimeout)
		if err != nil {
			return fmt.Errorf("config error: 'request_timeout' is not a duration: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'request_timeout' must be positive")
		}
	}
	if c.DatabaseDriver == "pgx" || c.DatabaseDriver == "postgres" {
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for driver %s", c.DatabaseDriver)
		}
	}
	return nil
}

// Timeout returns RequestTimeout as a duration, or zero when unset or invalid.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0
	}
	return d
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DatabaseDriver == "sqlite" {
		return c.SQLitePath
	}
	return c.DatabaseURL
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIBaseURL == "" {
		result.APIBaseURL = defaults.APIBaseURL
	}
	if result.AuthToken == "" {
		result.AuthToken = defaults.AuthToken
	}
	if result.RequestTimeout == "" {
		result.RequestTimeout = defaults.RequestTimeout
	}
	if result.UserID == "" {
		result.UserID = defaults.UserID
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.DatabaseDriver == "" {
		result.DatabaseDriver = defaults.DatabaseDriver
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.MaxBatchWorkers == 0 {
		result.MaxBatchWorkers = defaults.MaxBatchWorkers
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
