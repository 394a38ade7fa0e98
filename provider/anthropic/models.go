// Package anthropic adapts the Anthropic SDK to the fieldwork ChatProvider
// interface.
package anthropic

// ChatModel represents an Anthropic chat model.
type ChatModel string

const (
	ClaudeSonnet4 ChatModel = "claude-sonnet-4-5"
	ClaudeHaiku   ChatModel = "claude-haiku-4-5"

	// DefaultChatModel is the recommended default model.
	DefaultChatModel ChatModel = ClaudeSonnet4
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
