package google

import (
	"encoding/json"
	"fmt"
	"log/slog"

	ai "github.com/spetersoncode/fieldwork"
	"google.golang.org/genai"
)

// ConvertTools converts fieldwork Tools to Google genai Tools.
//
// A tool without a name cannot be declared to the API and is dropped from
// the set with a diagnostic; it never fails the request.
func ConvertTools(tools []ai.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	funcs := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		if t.Name == "" {
			slog.Warn("dropping tool with empty name from declaration set")
			continue
		}
		funcs = append(funcs, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  TranslateSchema(t.Parameters),
		})
	}
	if len(funcs) == 0 {
		return nil
	}

	return []*genai.Tool{{FunctionDeclarations: funcs}}
}

func convertToolChoice(choice ai.ToolChoice) *genai.ToolConfig {
	switch choice {
	case ai.ToolChoiceNone:
		return &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeNone,
			},
		}
	case ai.ToolChoiceRequired:
		return &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAny,
			},
		}
	default:
		return &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAuto,
			},
		}
	}
}

func extractToolCalls(parts []*genai.Part) []ai.ToolCall {
	var calls []ai.ToolCall
	for i, part := range parts {
		if part.FunctionCall != nil {
			args := "{}"
			if part.FunctionCall.Args != nil {
				if data, err := marshalArgs(part.FunctionCall.Args); err == nil {
					args = data
				}
			}
			calls = append(calls, ai.ToolCall{
				ID:        fmt.Sprintf("call_%d_%s", i, part.FunctionCall.Name),
				Name:      part.FunctionCall.Name,
				Arguments: args,
			})
		}
	}
	return calls
}

func marshalArgs(args map[string]any) (string, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
