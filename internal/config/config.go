package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when no -config flag is given.
const DefaultConfigPath = "config.yaml"

// Load reads and validates the YAML config file at path.
func Load(path string) (*AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = 5000
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://localhost:6379/0"
	}
	if cfg.SiteName == "" {
		cfg.SiteName = "AeroVista Drone Services"
	}
	if cfg.Uploads.Dir == "" {
		cfg.Uploads.Dir = filepath.Join("data", "uploads")
	}
	if cfg.Uploads.MaxSizeMB <= 0 {
		cfg.Uploads.MaxSizeMB = 10
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.RateLimit.Max <= 0 {
		cfg.RateLimit.Max = 50
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = 1
	}
}

func validate(cfg *AppConfig) error {
	if strings.TrimSpace(cfg.DSN) == "" {
		return fmt.Errorf("config: dsn is required")
	}
	switch cfg.Env {
	case "development", "production":
	default:
		return fmt.Errorf("config: env must be development or production, got %q", cfg.Env)
	}
	return nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env == "development" }
