package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/smallyu/go-sss/pkg/sss"
)

// Config represents the complete sssctl configuration
type Config struct {
	Curve     string        `yaml:"curve"`
	Shares    int           `yaml:"shares"`
	Threshold int           `yaml:"threshold"`
	Backend   BackendConfig `yaml:"backend"`
	Random    RandomConfig  `yaml:"random"`
	Logging   LoggingConfig `yaml:"logging"`
	Metrics   MetricsConfig `yaml:"metrics"`
}

// BackendConfig selects the software backend generation
type BackendConfig struct {
	Version string `yaml:"version"` // legacy, named, current
}

// RandomConfig bounds identifier generation
type RandomConfig struct {
	MaxDraws int `yaml:"max_draws"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls metrics collection
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Curve:     string(sss.Secp256k1),
		Shares:    3,
		Threshold: 2,
		Backend:   BackendConfig{Version: "current"},
		Random:    RandomConfig{MaxDraws: 10000},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration from a YAML file and applies environment variable overrides
func Load(path string) (*Config, error) {
	// #nosec G304 - Config file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default, then applies environment overrides
// and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ApplyEnvOverrides applies SSS_* environment variables to cfg.
func ApplyEnvOverrides(cfg *Config) error {
	if curve := os.Getenv("SSS_CURVE"); curve != "" {
		cfg.Curve = curve
	}
	if shares := os.Getenv("SSS_SHARES"); shares != "" {
		n, err := strconv.Atoi(shares)
		if err != nil {
			return fmt.Errorf("invalid SSS_SHARES value %q: %w", shares, err)
		}
		cfg.Shares = n
	}
	if threshold := os.Getenv("SSS_THRESHOLD"); threshold != "" {
		t, err := strconv.Atoi(threshold)
		if err != nil {
			return fmt.Errorf("invalid SSS_THRESHOLD value %q: %w", threshold, err)
		}
		cfg.Threshold = t
	}
	if version := os.Getenv("SSS_BACKEND_VERSION"); version != "" {
		cfg.Backend.Version = version
	}

	// Logging
	if level := os.Getenv("SSS_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("SSS_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
	return nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if _, err := sss.ParseCurve(c.Curve); err != nil {
		return err
	}

	if err := c.Params().Validate(); err != nil {
		return err
	}

	validVersions := map[string]bool{
		"legacy": true, "named": true, "current": true,
	}
	if !validVersions[strings.ToLower(c.Backend.Version)] {
		return fmt.Errorf("invalid backend version: %s (must be legacy, named, or current)", c.Backend.Version)
	}

	if c.Random.MaxDraws < 1 {
		return fmt.Errorf("random.max_draws must be positive, got %d", c.Random.MaxDraws)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"json": true, "text": true, "console": true,
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be json, text, or console)", c.Logging.Format)
	}

	return nil
}

// Params returns the share counts as sss.Params.
func (c *Config) Params() sss.Params {
	return sss.Params{Total: c.Shares, Threshold: c.Threshold}
}

// CurveID returns the parsed curve. Call Validate first.
func (c *Config) CurveID() sss.Curve {
	curve, _ := sss.ParseCurve(c.Curve)
	return curve
}
