package mcp

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/fieldwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRPCClient implements rpcClient for session tests.
type fakeRPCClient struct {
	startErr      error
	initErr       error
	listErr       error
	callErr       error
	callResult    *mcp.CallToolResult
	tools         []mcp.Tool
	startCalls    int
	initCalls     int
	listCalls     int
	callCalls     int
	closeCalls    int
	lastCallReq   mcp.CallToolRequest
	failAfterOpen bool // simulate transport death for calls after connect
}

func (f *fakeRPCClient) Start(ctx context.Context) error {
	f.startCalls++
	return f.startErr
}

func (f *fakeRPCClient) Initialize(ctx context.Context, req mcp.InitializeRequest) (*mcp.InitializeResult, error) {
	f.initCalls++
	if f.initErr != nil {
		return nil, f.initErr
	}
	return &mcp.InitializeResult{}, nil
}

func (f *fakeRPCClient) ListTools(ctx context.Context, req mcp.ListToolsRequest) (*mcp.ListToolsResult, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &mcp.ListToolsResult{Tools: f.tools}, nil
}

func (f *fakeRPCClient) CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f.callCalls++
	f.lastCallReq = req
	if f.failAfterOpen {
		return nil, io.EOF
	}
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.callResult, nil
}

func (f *fakeRPCClient) Close() error {
	f.closeCalls++
	return nil
}

func testTools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewToolWithRawSchema("echo", "Echo back text",
			[]byte(`{"type":"object","properties":{"text":{"type":"string"}},"required":["text"]}`)),
		mcp.NewToolWithRawSchema("time", "Current time", []byte(`{"type":"object"}`)),
	}
}

func TestSession_Connect(t *testing.T) {
	t.Run("handshake then single tool listing", func(t *testing.T) {
		fake := &fakeRPCClient{tools: testTools()}
		s := newSession(fake)

		err := s.Connect(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, fake.startCalls)
		assert.Equal(t, 1, fake.initCalls)
		assert.Equal(t, 1, fake.listCalls)

		tools, err := s.Tools()
		require.NoError(t, err)
		require.Len(t, tools, 2)
		assert.Equal(t, "echo", tools[0].Name)
		assert.Equal(t, "time", tools[1].Name)
	})

	t.Run("second connect is a no-op and the cache is not rebuilt", func(t *testing.T) {
		fake := &fakeRPCClient{tools: testTools()}
		s := newSession(fake)

		require.NoError(t, s.Connect(context.Background()))
		require.NoError(t, s.Connect(context.Background()))

		assert.Equal(t, 1, fake.listCalls)
		assert.Equal(t, 1, fake.initCalls)
	})

	t.Run("unreachable host", func(t *testing.T) {
		fake := &fakeRPCClient{startErr: errors.New("no such file")}
		s := newSession(fake)

		err := s.Connect(context.Background())

		var unavailable *ai.HostUnavailableError
		require.ErrorAs(t, err, &unavailable)
	})

	t.Run("handshake failure", func(t *testing.T) {
		fake := &fakeRPCClient{initErr: errors.New("protocol mismatch")}
		s := newSession(fake)

		err := s.Connect(context.Background())

		var connErr *ai.ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, "handshake", connErr.Stage)
		assert.Equal(t, 1, fake.closeCalls)
	})

	t.Run("list failure", func(t *testing.T) {
		fake := &fakeRPCClient{listErr: errors.New("boom")}
		s := newSession(fake)

		err := s.Connect(context.Background())

		var connErr *ai.ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, "list-tools", connErr.Stage)
	})

	t.Run("connect after close fails", func(t *testing.T) {
		fake := &fakeRPCClient{tools: testTools()}
		s := newSession(fake)
		require.NoError(t, s.Close())

		err := s.Connect(context.Background())

		var connErr *ai.ConnectionError
		require.ErrorAs(t, err, &connErr)
	})
}

func TestSession_Tools(t *testing.T) {
	t.Run("before connect", func(t *testing.T) {
		s := newSession(&fakeRPCClient{})

		_, err := s.Tools()

		assert.ErrorIs(t, err, ai.ErrNotConnected)
	})

	t.Run("returns a copy", func(t *testing.T) {
		fake := &fakeRPCClient{tools: testTools()}
		s := newSession(fake)
		require.NoError(t, s.Connect(context.Background()))

		tools, err := s.Tools()
		require.NoError(t, err)
		tools[0].Name = "mutated"

		again, err := s.Tools()
		require.NoError(t, err)
		assert.Equal(t, "echo", again[0].Name)
	})
}

func TestSession_Call(t *testing.T) {
	t.Run("before connect", func(t *testing.T) {
		s := newSession(&fakeRPCClient{})

		_, err := s.Call(context.Background(), ai.ToolCall{Name: "echo"})

		assert.ErrorIs(t, err, ai.ErrNotConnected)
	})

	t.Run("successful call carries text content", func(t *testing.T) {
		fake := &fakeRPCClient{
			tools:      testTools(),
			callResult: mcp.NewToolResultText("hi"),
		}
		s := newSession(fake)
		require.NoError(t, s.Connect(context.Background()))

		result, err := s.Call(context.Background(), ai.ToolCall{
			ID:        "call_0_echo",
			Name:      "echo",
			Arguments: `{"text":"hi"}`,
		})

		require.NoError(t, err)
		assert.Equal(t, "call_0_echo", result.ToolCallID)
		assert.Equal(t, "echo", result.Name)
		assert.Equal(t, "hi", result.Content)
		assert.False(t, result.IsError)
		assert.Equal(t, "echo", fake.lastCallReq.Params.Name)
	})

	t.Run("host-side failure becomes an error result, not an error", func(t *testing.T) {
		fake := &fakeRPCClient{
			tools:   testTools(),
			callErr: errors.New("invalid arguments"),
		}
		s := newSession(fake)
		require.NoError(t, s.Connect(context.Background()))

		result, err := s.Call(context.Background(), ai.ToolCall{ID: "c1", Name: "echo"})

		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, result.Content, "invalid arguments")
	})

	t.Run("dead transport raises SessionBroken", func(t *testing.T) {
		fake := &fakeRPCClient{tools: testTools(), failAfterOpen: true}
		s := newSession(fake)
		require.NoError(t, s.Connect(context.Background()))

		_, err := s.Call(context.Background(), ai.ToolCall{Name: "echo"})

		var broken *ai.SessionBrokenError
		require.ErrorAs(t, err, &broken)
	})

	t.Run("call after close fails fast", func(t *testing.T) {
		fake := &fakeRPCClient{tools: testTools(), callResult: mcp.NewToolResultText("hi")}
		s := newSession(fake)
		require.NoError(t, s.Connect(context.Background()))
		require.NoError(t, s.Close())

		_, err := s.Call(context.Background(), ai.ToolCall{Name: "echo"})

		assert.ErrorIs(t, err, ai.ErrNotConnected)
	})
}

func TestSession_Close(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		fake := &fakeRPCClient{tools: testTools()}
		s := newSession(fake)
		require.NoError(t, s.Connect(context.Background()))

		require.NoError(t, s.Close())
		require.NoError(t, s.Close())

		assert.Equal(t, 1, fake.closeCalls)
	})

	t.Run("tools after close", func(t *testing.T) {
		fake := &fakeRPCClient{tools: testTools()}
		s := newSession(fake)
		require.NoError(t, s.Connect(context.Background()))
		require.NoError(t, s.Close())

		_, err := s.Tools()

		assert.ErrorIs(t, err, ai.ErrNotConnected)
	})
}
