// Package config loads the optional ponder.yaml configuration file and
// applies environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the process configuration. Zero values are usable defaults:
// no redis cache, thought logging enabled, info-level logs.
type Config struct {
	ServerName        string `yaml:"server_name"`
	LogLevel          string `yaml:"log_level"`
	DisableThoughtLog bool   `yaml:"disable_thought_log"`
	RedisAddr         string `yaml:"redis_addr"`
	RedisPassword     string `yaml:"redis_password"`
	RedisDB           int    `yaml:"redis_db"`
	CacheTTLSeconds   int    `yaml:"cache_ttl_seconds"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		ServerName:      "ponder-mcp",
		LogLevel:        "info",
		CacheTTLSeconds: 900,
	}
}

// CacheTTL returns the cache expiration as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Load reads a configuration file and applies environment overrides.
// A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv layers PONDER_* environment variables over the file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PONDER_DISABLE_THOUGHT_LOG"); v != "" {
		cfg.DisableThoughtLog = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("PONDER_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("PONDER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
