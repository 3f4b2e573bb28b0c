// Package common provides shared utilities for Norbank
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Norbank
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Market      MarketConfig  `toml:"market"`
	Auth        AuthConfig    `toml:"auth"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration.
type StorageConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Quotes QuotesConfig `toml:"quotes"`
}

// QuotesConfig holds quote provider API configuration.
// MinInterval is the minimum spacing between upstream calls — an upstream
// quota throttle, not a performance knob.
type QuotesConfig struct {
	BaseURL     string `toml:"base_url"`
	APIKey      string `toml:"api_key"`
	MinInterval string `toml:"min_interval"`
	Timeout     string `toml:"timeout"`
}

// GetMinInterval parses and returns the minimum inter-request interval
func (c *QuotesConfig) GetMinInterval() time.Duration {
	d, err := time.ParseDuration(c.MinInterval)
	if err != nil || d <= 0 {
		return 1100 * time.Millisecond
	}
	return d
}

// GetTimeout parses and returns the timeout duration
func (c *QuotesConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// MarketConfig holds market data refresh configuration.
type MarketConfig struct {
	DefaultExchange string `toml:"default_exchange"`
	StalenessWindow string `toml:"staleness_window"`
	WarmCache       bool   `toml:"warm_cache"`
}

// GetStalenessWindow parses and returns the quote staleness window.
func (c *MarketConfig) GetStalenessWindow() time.Duration {
	d, err := time.ParseDuration(c.StalenessWindow)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// AuthConfig holds authentication configuration for session tokens.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000",
			Username:  "root",
			Password:  "root",
			Namespace: "norbank",
			Database:  "norbank",
		},
		Clients: ClientsConfig{
			Quotes: QuotesConfig{
				BaseURL:     "https://finnhub.io/api/v1",
				MinInterval: "1100ms",
				Timeout:     "30s",
			},
		},
		Market: MarketConfig{
			DefaultExchange: "OSE",
			StalenessWindow: "5m",
			WarmCache:       true,
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Apply environment overrides
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("NORBANK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("NORBANK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("NORBANK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("NORBANK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("NORBANK_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if user := os.Getenv("NORBANK_STORAGE_USERNAME"); user != "" {
		config.Storage.Username = user
	}
	if pass := os.Getenv("NORBANK_STORAGE_PASSWORD"); pass != "" {
		config.Storage.Password = pass
	}

	if key := os.Getenv("NORBANK_QUOTES_API_KEY"); key != "" {
		config.Clients.Quotes.APIKey = key
	}
	if base := os.Getenv("NORBANK_QUOTES_BASE_URL"); base != "" {
		config.Clients.Quotes.BaseURL = base
	}

	if ex := os.Getenv("NORBANK_DEFAULT_EXCHANGE"); ex != "" {
		config.Market.DefaultExchange = strings.ToUpper(ex)
	}

	// Auth overrides
	if v := os.Getenv("NORBANK_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("NORBANK_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
