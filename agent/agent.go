package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ai "github.com/spetersoncode/fieldwork"
)

// Fixed messages returned by Chat for recoverable failures. Callers treat
// the string result as authoritative, so these failure modes are surfaced
// as text instead of errors.
const (
	// ResponseTimeout is returned when a model-generate call exceeds
	// the configured GenerateTimeout.
	ResponseTimeout = "Error: model call timed out"

	// ResponseEmpty is returned when the model produces a turn with no
	// usable content and no tool calls.
	ResponseEmpty = "No response from model"

	// ResponseExhausted is returned when the round budget is spent
	// without the model producing a final answer.
	ResponseExhausted = "Maximum iterations reached"
)

// ToolSession is the tool host surface the orchestrator drives.
// *mcp.Session satisfies it.
type ToolSession interface {
	// Connect establishes the session and performs tool discovery.
	// It must be idempotent.
	Connect(ctx context.Context) error

	// Tools returns the discovered tool set in host order.
	Tools() ([]ai.Tool, error)

	// Call executes one tool call. Host-side tool failures are absorbed
	// into the result with IsError set; the error return is reserved for
	// session-fatal conditions.
	Call(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error)

	// Close tears down the session.
	Close() error
}

// Orchestrator drives autonomous tool-calling conversations between a
// ChatProvider and a ToolSession.
type Orchestrator struct {
	provider ai.ChatProvider
	session  ToolSession
	opts     *Options

	mu        sync.Mutex
	connected bool
	chatOpts  []ai.Option
}

// New creates an Orchestrator over the given provider and tool session.
// The session is connected lazily on the first Chat call.
func New(provider ai.ChatProvider, session ToolSession, opts ...Option) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		session:  session,
		opts:     ApplyOptions(opts...),
	}
}

// Chat runs one orchestrated conversation seeded with prompt and returns
// the model's final text answer.
//
// Recoverable failures (generate timeouts, backend errors, empty turns,
// round exhaustion) are returned as descriptive strings with a nil error.
// A non-nil error means the conversation could not proceed at all: the
// session failed to connect, the transport died mid-conversation, or the
// caller's context was canceled.
func (o *Orchestrator) Chat(ctx context.Context, prompt string) (string, error) {
	chatOpts, err := o.ensureConnected(ctx)
	if err != nil {
		return "", err
	}

	history := []ai.Message{ai.NewUserMessage(prompt)}

	for round := 1; round <= o.opts.MaxRounds; round++ {
		o.opts.Logger.Debug("generate round", "round", round, "max_rounds", o.opts.MaxRounds)

		response, err := o.generate(ctx, history, chatOpts)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				o.opts.Logger.Warn("model call timed out", "timeout", o.opts.GenerateTimeout)
				return ResponseTimeout, nil
			}
			o.opts.Logger.Warn("model call failed", "error", err)
			return fmt.Sprintf("Error calling model: %v", err), nil
		}

		if len(response.ToolCalls) > 0 {
			results, err := o.dispatch(ctx, response.ToolCalls)
			if err != nil {
				return "", err
			}
			history = append(history, ai.Message{
				Role:      ai.RoleAssistant,
				Content:   response.Content,
				ToolCalls: response.ToolCalls,
			})
			history = append(history, ai.NewToolResultMessage(results...))
			continue
		}

		if response.Content != "" {
			return response.Content, nil
		}
		return ResponseEmpty, nil
	}

	o.opts.Logger.Warn("round budget exhausted", "max_rounds", o.opts.MaxRounds)
	return ResponseExhausted, nil
}

// Close tears down the underlying tool session. Subsequent Chat calls fail.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	o.connected = false
	o.chatOpts = nil
	o.mu.Unlock()
	return o.session.Close()
}

// ensureConnected connects the session and returns the chat options with
// the translated tool set attached. The tool set is computed once and the
// same cached slice is handed to every subsequent Chat call, so an
// in-flight conversation keeps its options even if the orchestrator is
// closed underneath it.
func (o *Orchestrator) ensureConnected(ctx context.Context) ([]ai.Option, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.connected {
		return o.chatOpts, nil
	}

	if err := o.session.Connect(ctx); err != nil {
		return nil, err
	}
	tools, err := o.session.Tools()
	if err != nil {
		return nil, err
	}

	o.chatOpts = append([]ai.Option{ai.WithTools(tools)}, o.opts.ChatOptions...)
	o.connected = true
	o.opts.Logger.Info("session connected", "tools", len(tools))
	return o.chatOpts, nil
}

// generate performs one model call under the per-call timeout.
func (o *Orchestrator) generate(ctx context.Context, history []ai.Message, chatOpts []ai.Option) (*ai.Response, error) {
	gctx := ctx
	if o.opts.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		gctx, cancel = context.WithTimeout(ctx, o.opts.GenerateTimeout)
		defer cancel()
	}
	return o.provider.Chat(gctx, history, chatOpts...)
}

// dispatch executes the round's tool calls sequentially in the order the
// model emitted them, producing one result per call at the same position.
// Host-side failures arrive already absorbed into error results; an error
// return here means the session itself is unusable.
func (o *Orchestrator) dispatch(ctx context.Context, calls []ai.ToolCall) ([]ai.ToolResult, error) {
	results := make([]ai.ToolResult, 0, len(calls))
	for _, call := range calls {
		o.opts.Logger.Info("calling tool", "tool", call.Name, "call_id", call.ID)

		result, err := o.session.Call(ctx, call)
		if err != nil {
			return nil, err
		}
		if result.IsError {
			o.opts.Logger.Warn("tool returned error", "tool", call.Name, "content", result.Content)
		}
		results = append(results, result)
	}
	return results, nil
}
