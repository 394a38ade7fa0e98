package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/fieldwork"
)

// rpcClient is the subset of the mcp-go client used by a Session.
// *client.Client satisfies it; tests substitute a fake.
type rpcClient interface {
	Start(ctx context.Context) error
	Initialize(ctx context.Context, req mcp.InitializeRequest) (*mcp.InitializeResult, error)
	ListTools(ctx context.Context, req mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// Session owns the lifecycle of one connection to an MCP tool host:
// connect, list tools once, dispatch tool calls, close.
//
// Session is safe for concurrent use. The tool list is fetched exactly once
// per connection and cached; Connect is idempotent.
type Session struct {
	client rpcClient
	log    *slog.Logger

	// callTimeout bounds a single tool call. Zero means unbounded.
	callTimeout time.Duration

	mu        sync.RWMutex
	connected bool
	closed    bool
	tools     []ai.Tool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used for session diagnostics.
func WithLogger(log *slog.Logger) SessionOption {
	return func(s *Session) {
		s.log = log
	}
}

// WithCallTimeout bounds each individual tool call. An expired call is
// reported to the model as an error result, not a session failure.
// Zero disables the bound. The default is 5 minutes.
func WithCallTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		s.callTimeout = d
	}
}

// NewSession creates a Session whose tool host is spawned as a subprocess
// and spoken to over stdio. The command is the path to the MCP server
// executable; args are passed to it. A nil env inherits the parent
// environment.
func NewSession(command string, env []string, args ...string) (*Session, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, &ai.HostUnavailableError{Err: err}
	}
	return newSession(c), nil
}

// NewSessionSSE creates a Session connected to an MCP tool host over SSE.
func NewSessionSSE(baseURL string, opts ...SessionOption) (*Session, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, &ai.HostUnavailableError{Err: err}
	}
	return newSession(c, opts...), nil
}

// NewSessionFromClient creates a Session from an existing mcp-go client.
// Connect will start and initialize it.
func NewSessionFromClient(c *client.Client, opts ...SessionOption) *Session {
	return newSession(c, opts...)
}

func newSession(c rpcClient, opts ...SessionOption) *Session {
	s := &Session{
		client:      c,
		log:         slog.Default(),
		callTimeout: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect establishes the channel to the tool host: it starts the transport,
// performs the versioned initialize handshake, retrieves the tool list
// exactly once, and caches it. Calling Connect on an already-connected
// session is a no-op; the cache is not rebuilt.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &ai.ConnectionError{Stage: "start", Err: errors.New("session closed")}
	}
	if s.connected {
		return nil
	}

	if err := s.client.Start(ctx); err != nil {
		return &ai.HostUnavailableError{Err: err}
	}

	_, err := s.client.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "fieldwork",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		s.client.Close()
		return &ai.ConnectionError{Stage: "handshake", Err: err}
	}

	result, err := s.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		s.client.Close()
		return &ai.ConnectionError{Stage: "list-tools", Err: err}
	}

	s.tools = FromMCPTools(result.Tools)
	s.connected = true
	s.log.Info("tool session connected", "tools", len(s.tools))
	return nil
}

// Tools returns the cached tool list in host order. It fails with
// ErrNotConnected before Connect or after Close.
func (s *Session) Tools() ([]ai.Tool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected {
		return nil, ai.ErrNotConnected
	}
	tools := make([]ai.Tool, len(s.tools))
	copy(tools, s.tools)
	return tools, nil
}

// Call dispatches one tool call to the host and returns its outcome.
//
// A failure inside the tool host (bad arguments, backend error) is captured
// in the returned ToolResult with IsError set; it never surfaces as an
// error. Call returns a non-nil error only for ErrNotConnected and for
// transport-level failures, reported as SessionBrokenError.
func (s *Session) Call(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	s.mu.RLock()
	connected := s.connected
	timeout := s.callTimeout
	s.mu.RUnlock()

	if !connected {
		return ai.ToolResult{}, ai.ErrNotConnected
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	s.log.Info("calling tool", "tool", call.Name)
	result, err := s.client.CallTool(ctx, ToMCPCallToolRequest(call))
	if err != nil {
		if s.broken(ctx, err) {
			return ai.ToolResult{}, &ai.SessionBrokenError{Err: err}
		}
		s.log.Warn("tool call failed", "tool", call.Name, "error", err)
		return ai.ToolResult{
			ToolCallID: call.ID,
			Name:       call.Name,
			Content:    err.Error(),
			IsError:    true,
		}, nil
	}

	return FromMCPCallToolResult(call, result), nil
}

// broken reports whether a CallTool error means the channel itself died
// rather than the call failing inside the host.
func (s *Session) broken(ctx context.Context, err error) bool {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()

	if closed {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	// Cancellation that did not come from this call's own context means the
	// transport was torn down underneath us.
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		return true
	}
	return false
}

// Close releases the channel and any background tasks. It is safe to call
// multiple times and safe to call while a Call is outstanding; it never
// returns an error. Subsequent operations fail with ErrNotConnected.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.connected = false
	c := s.client
	s.mu.Unlock()

	if err := c.Close(); err != nil {
		s.log.Warn("closing tool session", "error", err)
	}
	return nil
}

// String describes the session state for diagnostics.
func (s *Session) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.closed:
		return "mcp.Session(closed)"
	case s.connected:
		return fmt.Sprintf("mcp.Session(connected, %d tools)", len(s.tools))
	default:
		return "mcp.Session(idle)"
	}
}
