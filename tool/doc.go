// Package tool provides a registry of locally implemented tools.
//
// A Registry pairs tool declarations (name, description, JSON Schema) with
// handler functions. It backs the MCP server side of fieldwork: the
// fieldwork-server binary registers the survey-platform tools here and
// serves them over stdio via the mcp package.
package tool
