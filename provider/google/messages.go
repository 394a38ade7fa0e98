package google

import (
	"encoding/json"

	ai "github.com/spetersoncode/fieldwork"
	"google.golang.org/genai"
)

func convertMessages(messages []ai.Message) []*genai.Content {
	var contents []*genai.Content

	for _, msg := range messages {
		role := "user"
		switch msg.Role {
		case ai.RoleUser:
			role = "user"
		case ai.RoleAssistant:
			role = "model"
		case ai.RoleSystem:
			// Gemini has no separate system role on this path; send as user
			// context.
			role = "user"
		case ai.RoleTool:
			// Tool results are sent as user messages with FunctionResponse parts.
			role = "user"
		}

		var parts []*genai.Part
		if msg.Content != "" {
			parts = append(parts, &genai.Part{Text: msg.Content})
		}

		// Function call parts from an assistant turn, in call order.
		for _, tc := range msg.ToolCalls {
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					Name: tc.Name,
					Args: tc.ParsedArguments(),
				},
			})
		}

		// Function result parts, positionally matched to the preceding
		// assistant turn's calls. Gemini correlates by name and position.
		for _, tr := range msg.ToolResults {
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     tr.Name,
					Response: functionResponseBody(tr),
				},
			})
		}

		if len(parts) > 0 {
			contents = append(contents, &genai.Content{
				Role:  role,
				Parts: parts,
			})
		}
	}

	return contents
}

// functionResponseBody shapes a tool outcome the way the Gemini API expects:
// a {"result": ...} mapping on success and an {"error": ...} mapping on
// failure.
func functionResponseBody(tr ai.ToolResult) map[string]any {
	if tr.IsError {
		return map[string]any{"error": tr.Content}
	}
	var structured map[string]any
	if err := json.Unmarshal([]byte(tr.Content), &structured); err == nil && structured != nil {
		return structured
	}
	return map[string]any{"result": tr.Content}
}
