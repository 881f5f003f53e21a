// Package config loads the checkout host configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no explicit file is given.
const DefaultPath = "checkout.yaml"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the full host configuration.
type Config struct {
	Listen  string        `yaml:"listen"`
	Submit  SubmitConfig  `yaml:"submit"`
	Store   StoreConfig   `yaml:"store"`
	Redis   RedisConfig   `yaml:"redis"`
	Metrics MetricsConfig `yaml:"metrics"`
	CORS    CORSConfig    `yaml:"cors"`
	Log     LogConfig     `yaml:"log"`

	// EncryptionKey enables encryption at rest when set (32 bytes, hex or raw).
	EncryptionKey string `yaml:"encryption_key"`
}

// SubmitConfig points at the submission endpoint.
type SubmitConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// StoreConfig selects where sessions live between requests.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
	Prefix   string        `yaml:"prefix"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Listen: ":8080",
		Submit: SubmitConfig{Timeout: 10 * time.Second},
		Store:  StoreConfig{Backend: StoreMemory, Dir: ".checkout/sessions"},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			TTL:    30 * time.Minute,
			Prefix: "checkout:session:",
		},
		CORS: CORSConfig{AllowedOrigins: []string{"*"}},
		Log:  LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults,
// so an unconfigured host still starts. JSON files parse as YAML.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that would otherwise fail late at startup.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Submit.Timeout < 0 {
		return fmt.Errorf("submit timeout must not be negative")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
