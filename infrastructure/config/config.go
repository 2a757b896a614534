// Package config loads labdesk settings: built-in defaults, then an optional
// YAML file, then environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr       string        `yaml:"addr"`
	SQLitePath string        `yaml:"sqlite_path"`
	Migrations string        `yaml:"migrations_dir"`
	API        APIConfig     `yaml:"api"`
	Session    SessionConfig `yaml:"session"`
	LogLevel   string        `yaml:"log_level"`
}

type APIConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Token       string        `yaml:"token"`
	Timeout     time.Duration `yaml:"timeout"`
	BulkWorkers int           `yaml:"bulk_workers"`
}

type SessionConfig struct {
	Lifetime time.Duration `yaml:"lifetime"`
}

func Default() Config {
	return Config{
		Addr:       ":8080",
		SQLitePath: "labdesk.db",
		API: APIConfig{
			BaseURL:     "http://localhost:8000/api",
			Timeout:     15 * time.Second,
			BulkWorkers: 4,
		},
		Session:  SessionConfig{Lifetime: 12 * time.Hour},
		LogLevel: "info",
	}
}

// Load reads path (when non-empty), applies env overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("APP_ADDR", &c.Addr)
	str("SQLITE_PATH", &c.SQLitePath)
	str("MIGRATIONS_DIR", &c.Migrations)
	str("LAB_API_URL", &c.API.BaseURL)
	str("LAB_API_TOKEN", &c.API.Token)
	str("LOG_LEVEL", &c.LogLevel)

	if v, ok := lookup("LAB_API_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("LAB_API_TIMEOUT: %w", err)
		}
		c.API.Timeout = d
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("addr is required")
	}
	if strings.TrimSpace(c.SQLitePath) == "" {
		return fmt.Errorf("sqlite_path is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.API.BulkWorkers <= 0 {
		return fmt.Errorf("api.bulk_workers must be positive")
	}
	if c.Session.Lifetime <= 0 {
		return fmt.Errorf("session.lifetime must be positive")
	}
	return nil
}
