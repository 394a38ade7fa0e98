// Command fieldwork is a chat CLI that drives survey platform tools through
// a tool-calling model.
//
// It spawns the fieldwork-server MCP tool host as a subprocess, connects a
// model backend (Gemini by default), and runs the orchestration loop. With
// arguments it answers a single prompt and exits; without arguments it runs
// an interactive prompt loop.
//
// Usage:
//
//	fieldwork "List my draft studies"
//	fieldwork
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	ai "github.com/spetersoncode/fieldwork"
	"github.com/spetersoncode/fieldwork/agent"
	"github.com/spetersoncode/fieldwork/mcp"
	"github.com/spetersoncode/fieldwork/provider/anthropic"
	"github.com/spetersoncode/fieldwork/provider/google"
	"github.com/spetersoncode/fieldwork/provider/openai"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fieldwork: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	session, err := mcp.NewSession(cfg.ServerCommand, os.Environ(), cfg.ServerArgs...)
	if err != nil {
		return err
	}
	defer session.Close()

	agentOpts := []agent.Option{
		agent.WithMaxRounds(cfg.MaxRounds),
		agent.WithGenerateTimeout(cfg.GenerateTimeout),
		agent.WithLogger(log),
	}
	if cfg.Model != "" {
		agentOpts = append(agentOpts, agent.WithChatOptions(ai.WithModel(cfg.Model)))
	}

	orch := agent.New(provider, session, agentOpts...)

	if len(os.Args) > 1 {
		prompt := strings.Join(os.Args[1:], " ")
		answer, err := orch.Chat(ctx, prompt)
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	}

	return repl(ctx, orch)
}

func repl(ctx context.Context, orch *agent.Orchestrator) error {
	fmt.Println("fieldwork chat (type 'exit' to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}
		if prompt == "exit" || prompt == "quit" {
			return nil
		}

		answer, err := orch.Chat(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fmt.Println(answer)
	}
}

func newProvider(ctx context.Context, cfg *Config) (ai.ChatProvider, error) {
	switch cfg.Provider {
	case "google":
		return google.New(ctx, cfg.GoogleKey)
	case "openai":
		return openai.New(cfg.OpenAIKey), nil
	case "anthropic":
		return anthropic.New(cfg.AnthropicKey), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
