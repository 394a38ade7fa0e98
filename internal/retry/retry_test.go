package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transientErr struct{ msg string }

func (e *transientErr) Error() string   { return e.msg }
func (e *transientErr) Retryable() bool { return true }

type permanentErr struct{ msg string }

func (e *permanentErr) Error() string   { return e.msg }
func (e *permanentErr) Retryable() bool { return false }

func fastConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDo(t *testing.T) {
	t.Run("returns result on first success", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), fastConfig(), func() (string, error) {
			calls++
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), fastConfig(), func() (string, error) {
			calls++
			if calls < 3 {
				return "", &transientErr{msg: "rate limited"}
			}
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), fastConfig(), func() (string, error) {
			calls++
			return "", &permanentErr{msg: "bad request"}
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns last error when attempts exhausted", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), fastConfig(), func() (string, error) {
			calls++
			return "", &transientErr{msg: fmt.Sprintf("attempt %d", calls)}
		})

		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Contains(t, err.Error(), "attempt 3")
	})

	t.Run("respects context cancellation during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		cfg := fastConfig()
		cfg.InitialDelay = time.Minute

		_, err := Do(ctx, cfg, func() (string, error) {
			return "", &transientErr{msg: "again"}
		})

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("disabled config makes a single attempt", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), Disabled(), func() (string, error) {
			calls++
			return "", &transientErr{msg: "again"}
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(&transientErr{msg: "x"}))
	assert.False(t, IsTransient(&permanentErr{msg: "x"}))
	assert.True(t, IsTransient(fmt.Errorf("wrapped: %w", &transientErr{msg: "x"})))
	assert.False(t, IsTransient(errors.New("plain")))
}

func TestConfigDelay(t *testing.T) {
	cfg := Config{
		MaxAttempts:  5,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	}

	assert.Equal(t, 100*time.Millisecond, cfg.Delay(0))
	assert.Equal(t, 200*time.Millisecond, cfg.Delay(1))
	assert.Equal(t, 400*time.Millisecond, cfg.Delay(2))
	// Capped at MaxDelay
	assert.Equal(t, time.Second, cfg.Delay(10))
	// Negative attempts clamp to the initial delay
	assert.Equal(t, 100*time.Millisecond, cfg.Delay(-1))
}
