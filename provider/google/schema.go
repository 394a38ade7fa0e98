package google

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// TranslateSchema converts a JSON Schema document into the genai native
// schema used for function declarations.
//
// Translation never fails outright: a property that cannot be translated is
// dropped with a diagnostic and the rest of the schema is kept, so a tool
// with an awkward schema still gets declared. An empty or unparseable
// document yields a bare object schema with no properties.
func TranslateSchema(raw json.RawMessage) *genai.Schema {
	empty := &genai.Schema{Type: genai.TypeObject}
	if len(raw) == 0 {
		return empty
	}

	var node map[string]any
	if err := json.Unmarshal(raw, &node); err != nil {
		slog.Warn("unparseable tool schema, declaring bare object", "error", err)
		return empty
	}

	schema, err := translateNode(node)
	if err != nil {
		slog.Warn("untranslatable tool schema, declaring bare object", "error", err)
		return empty
	}
	return schema
}

// translateNode translates one schema node, recursing into object properties
// and array items.
func translateNode(node map[string]any) (*genai.Schema, error) {
	result := &genai.Schema{Type: translateType(node)}

	if desc, ok := node["description"].(string); ok {
		result.Description = desc
	}

	if enumVal, ok := node["enum"].([]any); ok {
		for _, e := range enumVal {
			if s, ok := e.(string); ok {
				result.Enum = append(result.Enum, s)
			}
		}
	}

	if result.Type == genai.TypeObject {
		if props, ok := node["properties"].(map[string]any); ok {
			result.Properties = make(map[string]*genai.Schema, len(props))
			for name, propNode := range props {
				translated, err := translateProperty(propNode)
				if err != nil {
					// One bad property must not sink the tool.
					slog.Warn("dropping untranslatable schema property",
						"property", name, "error", err)
					continue
				}
				result.Properties[name] = translated
			}
		}
		// Required names are passed through unmodified; nothing checks
		// that they exist in properties.
		if required, ok := node["required"].([]any); ok {
			for _, r := range required {
				if s, ok := r.(string); ok {
					result.Required = append(result.Required, s)
				}
			}
		}
	}

	if result.Type == genai.TypeArray {
		// An array without items is accepted as an untyped array.
		if items, ok := node["items"]; ok {
			translated, err := translateProperty(items)
			if err != nil {
				return nil, fmt.Errorf("array items: %w", err)
			}
			result.Items = translated
		}
	}

	return result, nil
}

func translateProperty(node any) (*genai.Schema, error) {
	m, ok := node.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema node is %T, not an object", node)
	}
	return translateNode(m)
}

// translateType maps a JSON Schema type keyword to the genai type enum.
// Unknown or missing types default to string.
func translateType(node map[string]any) genai.Type {
	typeVal, _ := node["type"].(string)
	switch typeVal {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}
