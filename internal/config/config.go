package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Progress backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Quiz struct {
		TTL          string `yaml:"ttl"`
		MaxQuestions int    `yaml:"maxQuestions"`
		Bank         string `yaml:"bank"`
	} `yaml:"quiz"`
	Progress struct {
		Backend string `yaml:"backend"`
		TTL     string `yaml:"ttl"`
	} `yaml:"progress"`
	Chat struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"chat"`
	Market struct {
		Interval string `yaml:"interval"`
	} `yaml:"market"`
	Events struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"events"`
}

// Load reads .env (when present) and the YAML config at path. A missing
// config file yields defaults so the service can start with zero setup.
func Load(path string) (Config, error) {
	cfg := Config{}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	switch c.ProgressBackend() {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("progress backend redis needs redis.addr")
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return errors.New("progress backend postgres needs postgres.url")
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return errors.New("progress backend sqlite needs sqlite.path")
		}
	default:
		return fmt.Errorf("unknown progress backend %q", c.Progress.Backend)
	}
	return nil
}

// ProgressBackend returns the configured backend, memory by default.
func (c Config) ProgressBackend() string {
	b := strings.ToLower(strings.TrimSpace(c.Progress.Backend))
	if b == "" {
		return BackendMemory
	}
	return b
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
