// Package google adapts the Google GenAI SDK (Gemini) to the fieldwork
// ChatProvider interface.
//
// Besides message conversion, this package owns the schema translation from
// the JSON Schema documents carried by MCP tool declarations into the
// genai.Schema type the Gemini API requires for function declarations.
// Translation is lenient: a property that cannot be translated is dropped
// with a diagnostic rather than failing the whole tool, and a tool that
// cannot be declared at all is dropped from the set rather than failing the
// request.
package google
