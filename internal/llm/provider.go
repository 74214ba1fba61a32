package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates one completion. When the request carries a Schema
// the returned Content has already been validated against it.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is a single-turn or short multi-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema switches the provider to structured JSON output. Nil means
	// plain text.
	Schema *Schema

	MaxTokens int
	// Temperature is left to the provider default when zero.
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

// Schema is a named JSON Schema. Name is kebab-case, for example
// "grammar-exercise-batch"; OpenAI requires it and Gemini ignores it.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	// Content is validated JSON for schema requests, raw text otherwise.
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish turns a provider's raw text into a Response. Markdown code
// fences around JSON are stripped. With a schema, a truncated reply is
// ErrMaxTokensExceeded and anything else that fails validation is
// ErrInvalidResponse.
func finish(req Request, text string, usage Usage, model, stop string) (*Response, error) {
	content := json.RawMessage(text)
	if req.Schema != nil {
		content = json.RawMessage(stripFences(text))
		if err := validateResponse(req.Schema, content); err != nil {
			if stop == StopMaxTokens {
				return nil, &ErrMaxTokensExceeded{Content: content}
			}
			return nil, err
		}
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}

// stripFences removes a surrounding ```json ... ``` block.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
