package config

import (
	"os"
	"strconv"

	"ccdviz/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	Data   DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// AuthConfig holds the credential pair that gates the dashboard.
// Injected via environment so deployments are not tied to the
// literals shipped with the original sheet workflow.
type AuthConfig struct {
	Username string
	Password string
}

// DataConfig holds spreadsheet ingestion settings
type DataConfig struct {
	HeaderRows int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Auth: AuthConfig{
			Username: getEnvOrDefault("DASH_USERNAME", "mauli"),
			Password: getEnvOrDefault("DASH_PASSWORD", "mauliccd"),
		},
		Data: DataConfig{
			HeaderRows: getEnvIntOrDefault("HEADER_ROWS", 8),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Auth.Username == "" || config.Auth.Password == "" {
		return errors.ConfigInvalid("DASH_USERNAME and DASH_PASSWORD must not be empty")
	}
	if config.Data.HeaderRows < 0 {
		return errors.ConfigInvalid("HEADER_ROWS must not be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
