// Package config loads the simulator settings.
//
// Values come from a YAML file, then from the environment (a .env file in the
// working directory is read too, real variables win), then defaults apply.
// Environment variables are prefixed with STOCKSIM_, e.g. STOCKSIM_SOURCE_API_KEY.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const envPrefix = "STOCKSIM_"

// Config holds all application configuration.
type Config struct {
	Currency string  `yaml:"currency" env:"CURRENCY"`
	LogLevel string  `yaml:"log_level" env:"LOG_LEVEL"`
	Source   Source  `yaml:"source" envPrefix:"SOURCE_"`
	Cache    Cache   `yaml:"cache" envPrefix:"CACHE_"`
	Storage  Storage `yaml:"storage" envPrefix:"STORAGE_"`
}

// Source selects the market data provider.
type Source struct {
	Provider  string        `yaml:"provider" env:"PROVIDER"`
	APIKey    string        `yaml:"api_key" env:"API_KEY"`
	APISecret string        `yaml:"api_secret" env:"API_SECRET"`
	BaseURL   string        `yaml:"base_url" env:"BASE_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// Cache configures the shared price cache. It is disabled without an address.
type Cache struct {
	RedisAddr string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	TTL       time.Duration `yaml:"ttl" env:"TTL"`
}

// Storage selects where portfolios are saved and loaded.
type Storage struct {
	Driver string `yaml:"driver" env:"DRIVER"`
	DSN    string `yaml:"dsn" env:"DSN"`
}

// Supported providers and storage drivers.
const (
	ProviderEODHD  = "eodhd"
	ProviderYahoo  = "yahoo"
	ProviderAlpaca = "alpaca"

	DriverJSONL  = "jsonl"
	DriverXLSX   = "xlsx"
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults, and validates the result. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	return load(path, ".env", os.Environ())
}

func load(path, dotenv string, environ []string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	vars, err := godotenv.Read(dotenv)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", dotenv, err)
	}
	if vars == nil {
		vars = make(map[string]string)
	}
	for k, v := range env.ToMap(environ) {
		vars[k] = v
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix, Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) defaults() {
	if c.Currency == "" {
		c.Currency = "USD"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Source.Provider == "" {
		c.Source.Provider = ProviderEODHD
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 10 * time.Second
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 12 * time.Hour
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverJSONL
	}
	if c.Storage.DSN == "" && c.Storage.Driver == DriverSQLite {
		c.Storage.DSN = "stocksim.db"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.Source.Provider {
	case ProviderEODHD, ProviderYahoo:
	case ProviderAlpaca:
		if c.Source.APISecret == "" {
			return fmt.Errorf("source.api_secret is required for %s", c.Source.Provider)
		}
	default:
		return fmt.Errorf("unknown source.provider %q", c.Source.Provider)
	}
	if c.Source.Provider != ProviderYahoo && c.Source.APIKey == "" {
		return fmt.Errorf("source.api_key is required for %s", c.Source.Provider)
	}
	if c.Source.Timeout < 0 {
		return fmt.Errorf("source.timeout must be positive")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	switch c.Storage.Driver {
	case DriverJSONL, DriverXLSX, DriverSQLite:
	case DriverPgx:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for %s", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}
