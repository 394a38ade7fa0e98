package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults with google provider", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "test-key")
		t.Setenv("FIELDWORK_PROVIDER", "")
		t.Setenv("FIELDWORK_SERVER_CMD", "")
		t.Setenv("FIELDWORK_SERVER_ARGS", "")

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "google", cfg.Provider)
		assert.Equal(t, "fieldwork-server", cfg.ServerCommand)
		assert.Empty(t, cfg.ServerArgs)
		assert.Equal(t, 10, cfg.MaxRounds)
		assert.Equal(t, 2*time.Minute, cfg.GenerateTimeout)
	})

	t.Run("server args are split on whitespace", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "test-key")
		t.Setenv("FIELDWORK_PROVIDER", "google")
		t.Setenv("FIELDWORK_SERVER_CMD", "go")
		t.Setenv("FIELDWORK_SERVER_ARGS", "run ./cmd/fieldwork-server")

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "go", cfg.ServerCommand)
		assert.Equal(t, []string{"run", "./cmd/fieldwork-server"}, cfg.ServerArgs)
	})

	t.Run("missing key for selected provider", func(t *testing.T) {
		t.Setenv("FIELDWORK_PROVIDER", "openai")
		t.Setenv("OPENAI_API_KEY", "")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	})

	t.Run("unknown provider is rejected", func(t *testing.T) {
		t.Setenv("FIELDWORK_PROVIDER", "cohere")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown provider")
	})
}
