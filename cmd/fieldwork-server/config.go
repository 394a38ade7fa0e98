package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/spetersoncode/fieldwork/internal/survey"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	APIKey   string
	BaseURL  string
	LogLevel string // debug, info, warn, error
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{
		APIKey:   os.Getenv("SURVEY_API_KEY"),
		BaseURL:  getEnvOrDefault("SURVEY_API_BASE_URL", survey.DefaultBaseURL),
		LogLevel: getEnvOrDefault("FIELDWORK_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("SURVEY_API_KEY is required (set it in your .env file or environment)")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
