// Package llm is a small provider-neutral layer over hosted language
// models. Callers describe a prompt and, optionally, a JSON Schema; every
// provider returns schema-validated JSON.
package llm

import (
	"context"

	"github.com/goccy/go-json"
)

// Provider generates a response for a single request.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the provider uses its native structured-output mode and Content
	// has already been validated against the schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the resolved model identifier.
	ModelID() string
}

// Request is one prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema, when non-nil, constrains the output to JSON.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default in place.
	Temperature float64
}

// UserPrompt builds a single-turn request.
func UserPrompt(system, user string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
	}
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Name doubles as the OpenAI schema name and
// the validation cache key, so it must be unique per definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model output with its accounting.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalised to "end" or "max_tokens".
	StopReason string
}

// Usage is token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)
