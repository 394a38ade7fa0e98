package google

import (
	"testing"

	ai "github.com/spetersoncode/fieldwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMessages(t *testing.T) {
	t.Run("maps roles to gemini roles", func(t *testing.T) {
		contents := convertMessages([]ai.Message{
			{Role: ai.RoleUser, Content: "hello"},
			{Role: ai.RoleAssistant, Content: "hi there"},
		})

		require.Len(t, contents, 2)
		assert.Equal(t, "user", contents[0].Role)
		assert.Equal(t, "hello", contents[0].Parts[0].Text)
		assert.Equal(t, "model", contents[1].Role)
	})

	t.Run("assistant tool calls become function call parts in order", func(t *testing.T) {
		contents := convertMessages([]ai.Message{
			{
				Role: ai.RoleAssistant,
				ToolCalls: []ai.ToolCall{
					{ID: "call_0_get_study", Name: "get_study", Arguments: `{"study_id":"s1"}`},
					{ID: "call_1_list_studies", Name: "list_studies", Arguments: `{`},
				},
			},
		})

		require.Len(t, contents, 1)
		require.Len(t, contents[0].Parts, 2)
		fc0 := contents[0].Parts[0].FunctionCall
		require.NotNil(t, fc0)
		assert.Equal(t, "get_study", fc0.Name)
		assert.Equal(t, "s1", fc0.Args["study_id"])

		// Malformed arguments degrade to an empty mapping.
		fc1 := contents[0].Parts[1].FunctionCall
		require.NotNil(t, fc1)
		assert.Equal(t, "list_studies", fc1.Name)
		assert.Empty(t, fc1.Args)
	})

	t.Run("tool results become user-role function responses", func(t *testing.T) {
		contents := convertMessages([]ai.Message{
			ai.NewToolResultMessage(
				ai.ToolResult{ToolCallID: "call_0_echo", Name: "echo", Content: "hi"},
				ai.ToolResult{ToolCallID: "call_1_echo", Name: "echo", Content: "boom", IsError: true},
			),
		})

		require.Len(t, contents, 1)
		assert.Equal(t, "user", contents[0].Role)
		require.Len(t, contents[0].Parts, 2)

		ok := contents[0].Parts[0].FunctionResponse
		require.NotNil(t, ok)
		assert.Equal(t, "echo", ok.Name)
		assert.Equal(t, map[string]any{"result": "hi"}, ok.Response)

		failed := contents[0].Parts[1].FunctionResponse
		require.NotNil(t, failed)
		assert.Equal(t, map[string]any{"error": "boom"}, failed.Response)
	})

	t.Run("structured tool result content is passed through", func(t *testing.T) {
		contents := convertMessages([]ai.Message{
			ai.NewToolResultMessage(
				ai.ToolResult{Name: "get_study", Content: `{"id":"s1","status":"ACTIVE"}`},
			),
		})

		require.Len(t, contents, 1)
		resp := contents[0].Parts[0].FunctionResponse
		require.NotNil(t, resp)
		assert.Equal(t, "s1", resp.Response["id"])
		assert.Equal(t, "ACTIVE", resp.Response["status"])
	})

	t.Run("empty messages are skipped", func(t *testing.T) {
		contents := convertMessages([]ai.Message{{Role: ai.RoleUser}})
		assert.Empty(t, contents)
	})
}
