package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider generates one structured reply per call. Every vendor adapter,
// the mock and the retry/logging/timeout decorators implement it.
type Provider interface {
	// Generate sends req and returns the reply. When req.Schema is set the
	// reply has already been checked against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the vendor model the provider resolved to.
	ModelID() string
}

// Request is a single-turn generation: a system prompt, the user message
// describing the batch to write, and the schema the batch must match.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, switches the vendor to structured output. Without
	// it Content is the vendor's raw text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the vendor default.
	Temperature float64
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

// Schema is a JSON Schema plus the name and description vendors show the
// model. Name is kebab-case and doubles as the Anthropic tool name, the
// OpenAI schema name and the validation cache key.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is one complete reply. Truncated replies surface as
// *ErrMaxTokensExceeded instead.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string
}

// Usage is the token count for one reply.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Decode unmarshals the reply into v. A reply that validated against its
// schema can still fail here when v disagrees with the schema, so the
// error is an *ErrInvalidResponse like any other malformed batch.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: fmt.Errorf("decode reply: %w", err)}
	}
	return nil
}
