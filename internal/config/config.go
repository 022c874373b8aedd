// Package config provides configuration loading and validation for the
// server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docker/go-units"
	"github.com/pelletier/go-toml/v2"

	"github.com/jonathan/resume-analyzer/internal/blob"
)

// Defaults
const (
	DefaultPort          = 8080
	DefaultMaxUploadSize = "10MB"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
)

// Config represents the application configuration. It can be loaded from a
// JSON or TOML file, then overridden from the environment.
type Config struct {
	Port        int    `json:"port,omitempty" toml:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty" toml:"database_url,omitempty"` // PostgreSQL connection URL; empty keeps records in memory

	APIKey string `json:"api_key,omitempty" toml:"api_key,omitempty"` // Gemini API key; empty disables analysis
	Model  string `json:"model,omitempty" toml:"model,omitempty"`     // Overrides the analysis model

	MaxUploadSize string `json:"max_upload_size,omitempty" toml:"max_upload_size,omitempty"` // Human size such as "10MB"

	LogLevel  string `json:"log_level,omitempty" toml:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty" toml:"log_format,omitempty"` // json or pretty

	MinIO blob.Config `json:"minio" toml:"minio"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Port:          DefaultPort,
		MaxUploadSize: DefaultMaxUploadSize,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
	}
}

// LoadConfig loads configuration from a file. Files ending in .toml are read
// as TOML, anything else as JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	} else if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: defaults, then the file at path
// when path is non-empty, then environment overrides. The result is
// validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables that are set.
// GEMINI_API_KEY wins over GOOGLE_API_KEY.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v := strings.TrimSpace(getenv(key)); v != "" {
				*dst = v
				return
			}
		}
	}

	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}

	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	setString(&c.Model, "GEMINI_MODEL")
	setString(&c.MaxUploadSize, "MAX_UPLOAD_SIZE")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")

	setString(&c.MinIO.Endpoint, "MINIO_ENDPOINT")
	setString(&c.MinIO.AccessKeyID, "MINIO_ACCESS_KEY")
	setString(&c.MinIO.SecretAccessKey, "MINIO_SECRET_KEY")
	setString(&c.MinIO.Bucket, "MINIO_BUCKET")
	setString(&c.MinIO.Location, "MINIO_LOCATION")
	if v := strings.TrimSpace(getenv("MINIO_USE_SSL")); v != "" {
		useSSL, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MINIO_USE_SSL: %v", err)
		}
		c.MinIO.UseSSL = useSSL
	}

	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}

	if _, err := c.MaxUploadBytes(); err != nil {
		return err
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "json", "pretty":
	default:
		return fmt.Errorf("config error: 'log_format' must be json or pretty, got %q", c.LogFormat)
	}

	if c.MinIO.Endpoint != "" && c.MinIO.Bucket == "" {
		return fmt.Errorf("config error: 'minio.bucket' is required when 'minio.endpoint' is set")
	}

	return nil
}

// MaxUploadBytes parses MaxUploadSize. Units are binary, so "10MB" is
// 10 * 1024 * 1024 bytes.
func (c *Config) MaxUploadBytes() (int64, error) {
	size := c.MaxUploadSize
	if size == "" {
		size = DefaultMaxUploadSize
	}
	n, err := units.RAMInBytes(size)
	if err != nil {
		return 0, fmt.Errorf("config error: invalid 'max_upload_size' %q: %w", size, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("config error: 'max_upload_size' must be positive, got %q", size)
	}
	return n, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.MaxUploadSize == "" {
		result.MaxUploadSize = defaults.MaxUploadSize
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.MinIO.Endpoint == "" {
		result.MinIO = defaults.MinIO
	}

	return result
}
