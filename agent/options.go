package agent

import (
	"log/slog"
	"time"

	"github.com/spetersoncode/fieldwork"
)

const (
	// DefaultMaxRounds is the default round budget for a single Chat call.
	DefaultMaxRounds = 10

	// DefaultGenerateTimeout bounds each individual model-generate call.
	DefaultGenerateTimeout = 120 * time.Second
)

// Options contains configuration for the orchestration loop.
type Options struct {
	// MaxRounds limits the number of model-generate rounds per Chat call.
	// Default is 10.
	MaxRounds int

	// GenerateTimeout bounds each individual model-generate call.
	// On expiry the in-flight call is abandoned and Chat returns a
	// timeout message without retrying. Default is 120 seconds.
	GenerateTimeout time.Duration

	// Logger receives structured progress logs. Defaults to slog.Default.
	Logger *slog.Logger

	// ChatOptions are passed through to the underlying ChatProvider on
	// every generate call, after the tool set.
	ChatOptions []fieldwork.Option
}

// Option is a functional option for configuring an Orchestrator.
type Option func(*Options)

// WithMaxRounds sets the round budget for each Chat call.
func WithMaxRounds(n int) Option {
	return func(o *Options) {
		o.MaxRounds = n
	}
}

// WithGenerateTimeout sets the timeout for each model-generate call.
func WithGenerateTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.GenerateTimeout = d
	}
}

// WithLogger sets the structured logger used by the orchestrator.
func WithLogger(log *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = log
	}
}

// WithChatOptions appends options forwarded to the ChatProvider on
// every generate call.
func WithChatOptions(opts ...fieldwork.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// ApplyOptions applies functional options and returns the resulting Options
// with defaults filled in.
func ApplyOptions(opts ...Option) *Options {
	options := &Options{
		MaxRounds:       DefaultMaxRounds,
		GenerateTimeout: DefaultGenerateTimeout,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return options
}
