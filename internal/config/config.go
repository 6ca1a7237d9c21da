package config

import (
	"os"
	"strconv"

	"statkit/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Analysis AnalysisConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds optional PostgreSQL settings. An empty URL means
// reports stay in memory.
type DatabaseConfig struct {
	URL string
}

// AnalysisConfig holds engine defaults
type AnalysisConfig struct {
	DefaultAlpha float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Analysis: AnalysisConfig{
			DefaultAlpha: 0.05,
		},
	}

	if raw := os.Getenv("DEFAULT_ALPHA"); raw != "" {
		alpha, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("DEFAULT_ALPHA must be a number")
		}
		config.Analysis.DefaultAlpha = alpha
	}

	if err := validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validate(c *Config) error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if c.Analysis.DefaultAlpha <= 0 || c.Analysis.DefaultAlpha >= 1 {
		return errors.ConfigInvalid("DEFAULT_ALPHA must be in (0, 1)")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
