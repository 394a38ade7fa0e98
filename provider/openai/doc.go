// Package openai adapts the OpenAI SDK to the fieldwork ChatProvider
// interface. Tool schemas pass through as JSON Schema, which the OpenAI API
// accepts natively.
package openai
