// Package config loads and validates the prompt-trim configuration.
//
// DESIGN: YAML files with ${VAR:-default} environment expansion. Unlike
// the network surface, the reduction options are forgiving by contract:
// unknown stemmer variants and language tags fall back to their defaults
// silently, so Validate only rejects what would break the process
// (ports, timeouts, store TTLs), never a trim option.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/compresr/prompt-trim/internal/monitoring"
	"github.com/compresr/prompt-trim/internal/pipeline"
)

// Config is the root configuration for the prompt-trim service.
type Config struct {
	Server     ServerConfig            `yaml:"server"`     // HTTP server settings
	Trim       pipeline.Options        `yaml:"trim"`       // Default reduction options
	Store      StoreConfig             `yaml:"store"`      // Original-text store
	History    HistoryConfig           `yaml:"history"`    // Savings ledger
	Pricing    PricingConfig           `yaml:"pricing"`    // Model price table
	Monitoring monitoring.LoggerConfig `yaml:"monitoring"` // Logging settings
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // Port to listen on
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // Max time to read request
	WriteTimeout time.Duration `yaml:"write_timeout"` // Max time to write response
	RateLimit    int           `yaml:"rate_limit"`    // Requests per second per IP
}

// StoreConfig contains original-text store settings.
type StoreConfig struct {
	OriginalTTL time.Duration `yaml:"original_ttl"` // TTL for recoverable originals
	ReducedTTL  time.Duration `yaml:"reduced_ttl"`  // TTL for the reduction cache
}

// HistoryConfig contains savings-ledger settings.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"` // Persist trim runs to SQLite
	Path    string `yaml:"path"`    // Database file path
}

// PricingConfig points at an optional price table override.
type PricingConfig struct {
	Path string `yaml:"path"` // YAML price table; empty = built-in table
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         18090,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit:    50,
		},
		Trim: pipeline.DefaultOptions(),
		Store: StoreConfig{
			OriginalTTL: 5 * time.Minute,
			ReducedTTL:  24 * time.Hour,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    "prompt-trim.db",
		},
		Monitoring: monitoring.LoggerConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
	}
}

// expandEnvWithDefaults expands environment variables with support for
// default values. Supports both ${VAR} and ${VAR:-default} syntax.
func expandEnvWithDefaults(s string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultValue := ""
		if len(parts) > 2 {
			defaultValue = parts[2]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Load reads configuration from a YAML file, layered over Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from raw YAML bytes. Fields absent
// from the YAML keep their defaults.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvWithDefaults(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides so external
// systems can redirect paths without editing config files.
func (c *Config) applyEnvOverrides() {
	if envPath := os.Getenv("PROMPT_TRIM_HISTORY_DB"); envPath != "" {
		c.History.Path = envPath
		c.History.Enabled = true
	}
	if envPath := os.Getenv("PROMPT_TRIM_PRICING"); envPath != "" {
		c.Pricing.Path = envPath
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("server.rate_limit must be positive")
	}

	if c.Store.OriginalTTL <= 0 {
		return fmt.Errorf("store.original_ttl must be positive")
	}
	if c.Store.ReducedTTL <= 0 {
		return fmt.Errorf("store.reduced_ttl must be positive")
	}

	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}

	return nil
}
