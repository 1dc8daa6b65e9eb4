package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/browsim/internal/providers/storage"
)

// FileEnv names the environment variable pointing at an optional config file
const FileEnv = "BROWSIM_CONFIG"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" toml:"server"`
	Logging    LogConfig        `yaml:"logging" toml:"logging"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit" toml:"rate_limit"`
	Storage    StorageConfig    `yaml:"storage" toml:"storage"`
	Navigation NavigationConfig `yaml:"navigation" toml:"navigation"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" yaml:"port" toml:"port"`
	Host string `envconfig:"HOST" yaml:"host" toml:"host"`
	Gzip bool   `envconfig:"GZIP_ENABLED" yaml:"gzip" toml:"gzip"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"requests_per_second" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled" toml:"enabled"`
}

// StorageConfig selects the history backend.
type StorageConfig struct {
	Driver     string `envconfig:"STORAGE_DRIVER" yaml:"driver" toml:"driver"`
	Path       string `envconfig:"STORAGE_PATH" yaml:"path" toml:"path"`
	HistoryKey string `envconfig:"HISTORY_KEY" yaml:"history_key" toml:"history_key"`
}

// NavigationConfig holds resolver and formatting settings.
type NavigationConfig struct {
	SearchEndpoint string `envconfig:"SEARCH_ENDPOINT" yaml:"search_endpoint" toml:"search_endpoint"`
	Locale         string `envconfig:"LOCALE" yaml:"locale" toml:"locale"`
}

// Load builds configuration from defaults, then the file named by
// BROWSIM_CONFIG (if set), then environment variables.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv(FileEnv))
}

// LoadFrom is Load with an explicit config file path. Empty path skips the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	// Fields without a matching variable keep their current value
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
			Gzip: true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Storage: StorageConfig{
			Driver:     storage.DriverFile,
			Path:       "/tmp/browsim-storage",
			HistoryKey: "browser-history",
		},
		Navigation: NavigationConfig{
			SearchEndpoint: "https://www.google.com/search",
			Locale:         "en",
		},
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case storage.DriverMemory, storage.DriverFile, storage.DriverSQLite:
	default:
		return fmt.Errorf("invalid storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver != storage.DriverMemory && c.Storage.Path == "" {
		return fmt.Errorf("storage path required for driver %q", c.Storage.Driver)
	}
	if err := storage.ValidateKey(c.Storage.HistoryKey); err != nil {
		return fmt.Errorf("invalid history key: %w", err)
	}

	u, err := url.Parse(c.Navigation.SearchEndpoint)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("search endpoint must be an absolute URL: %q", c.Navigation.SearchEndpoint)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit must be positive: rps=%d burst=%d",
			c.RateLimit.RequestsPerSecond, c.RateLimit.Burst)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// mergeFile overlays values from a YAML or TOML file, chosen by extension.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}
