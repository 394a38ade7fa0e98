package fieldwork

import "context"

// ChatProvider defines the interface for AI chat backends.
//
// Implementations must honor context cancellation: the orchestration loop
// wraps every call in a deadline and abandons the in-flight request when it
// expires.
type ChatProvider interface {
	// Chat sends a conversation and returns a complete response.
	Chat(ctx context.Context, messages []Message, opts ...Option) (*Response, error)
}
