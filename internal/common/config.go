// Package common provides shared utilities for Moneta
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Moneta
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Database    DatabaseConfig  `toml:"database"`
	Auth        AuthConfig      `toml:"auth"`
	Mail        MailConfig      `toml:"mail"`
	Bootstrap   BootstrapConfig `toml:"bootstrap"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig holds relational database configuration.
// Driver is "sqlite" or "postgres"; DSN is the driver connection string.
type DatabaseConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// AuthConfig holds JWT authentication configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	Issuer      string `toml:"issuer"`
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

// MailConfig holds outbound mail configuration.
// BaseURL is the public address used to build verification links.
type MailConfig struct {
	SendGridKey string `toml:"sendgrid_key"`
	FromName    string `toml:"from_name"`
	FromAddress string `toml:"from_address"`
	BaseURL     string `toml:"base_url"`
}

// BootstrapConfig holds the default admin account created at startup.
type BootstrapConfig struct {
	AdminEmail    string `toml:"admin_email"`
	AdminPassword string `toml:"admin_password"`
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
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "data/moneta.db",
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			Issuer:      "moneta-server",
			TokenExpiry: "24h",
		},
		Mail: MailConfig{
			FromName:    "Moneta",
			FromAddress: "no-reply@moneta.local",
			BaseURL:     "http://localhost:8080",
		},
		Bootstrap: BootstrapConfig{
			AdminEmail: "admin@moneta.local",
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

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MONETA_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("MONETA_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("MONETA_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("MONETA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if driver := os.Getenv("MONETA_DB_DRIVER"); driver != "" {
		config.Database.Driver = driver
	}
	if dsn := os.Getenv("MONETA_DB_DSN"); dsn != "" {
		config.Database.DSN = dsn
	}

	// Auth overrides
	if v := os.Getenv("MONETA_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("MONETA_AUTH_ISSUER"); v != "" {
		config.Auth.Issuer = v
	}
	if v := os.Getenv("MONETA_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}

	// Mail overrides
	if v := os.Getenv("MONETA_MAIL_SENDGRID_KEY"); v != "" {
		config.Mail.SendGridKey = v
	}
	if v := os.Getenv("MONETA_MAIL_FROM_ADDRESS"); v != "" {
		config.Mail.FromAddress = v
	}
	if v := os.Getenv("MONETA_MAIL_BASE_URL"); v != "" {
		config.Mail.BaseURL = v
	}

	// Bootstrap overrides
	if v := os.Getenv("MONETA_ADMIN_EMAIL"); v != "" {
		config.Bootstrap.AdminEmail = v
	}
	if v := os.Getenv("MONETA_ADMIN_PASSWORD"); v != "" {
		config.Bootstrap.AdminPassword = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
