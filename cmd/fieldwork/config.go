package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the chat CLI configuration loaded from environment variables.
type Config struct {
	// Provider selection
	Provider string // google, openai, anthropic
	Model    string

	// API keys
	GoogleKey    string
	OpenAIKey    string
	AnthropicKey string

	// Tool host
	ServerCommand string
	ServerArgs    []string

	// Orchestration
	MaxRounds       int
	GenerateTimeout time.Duration

	LogLevel string // debug, info, warn, error
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{
		Provider:        getEnvOrDefault("FIELDWORK_PROVIDER", "google"),
		Model:           os.Getenv("FIELDWORK_MODEL"),
		GoogleKey:       os.Getenv("GOOGLE_API_KEY"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:    os.Getenv("ANTHROPIC_API_KEY"),
		ServerCommand:   getEnvOrDefault("FIELDWORK_SERVER_CMD", "fieldwork-server"),
		ServerArgs:      strings.Fields(os.Getenv("FIELDWORK_SERVER_ARGS")),
		MaxRounds:       getEnvIntOrDefault("FIELDWORK_MAX_ROUNDS", 10),
		GenerateTimeout: getEnvDurationOrDefault("FIELDWORK_GENERATE_TIMEOUT", 2*time.Minute),
		LogLevel:        getEnvOrDefault("FIELDWORK_LOG_LEVEL", "warn"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch c.Provider {
	case "google":
		if c.GoogleKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for google provider")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai provider")
		}
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	default:
		return fmt.Errorf("unknown provider: %s (must be google, openai, or anthropic)", c.Provider)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
