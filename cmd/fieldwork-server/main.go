// Command fieldwork-server exposes survey platform operations as MCP tools
// over stdio.
//
// It is designed to be spawned as a subprocess by an MCP client (such as
// the fieldwork chat CLI or Claude Desktop) and speaks the MCP protocol on
// stdin/stdout. Logs go to stderr so they never corrupt the transport.
//
// Usage:
//
//	SURVEY_API_KEY=... fieldwork-server
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spetersoncode/fieldwork/internal/survey"
	"github.com/spetersoncode/fieldwork/mcp"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fieldwork-server: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP transport; all logging goes to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(log)

	client := survey.NewClient(cfg.APIKey, survey.WithBaseURL(cfg.BaseURL))
	registry := newToolRegistry(client)

	log.Info("starting MCP server", "tools", registry.Len())

	if err := mcp.ServeStdio(registry,
		mcp.WithName("fieldwork-server"),
		mcp.WithVersion("1.0.0"),
	); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
