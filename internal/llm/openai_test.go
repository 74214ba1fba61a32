package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  "gpt-4o-mini",
	}
}

// chatCompletion answers with a single choice.
func chatCompletion(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{
				"prompt_tokens":     40,
				"completion_tokens": 25,
				"total_tokens":      65,
			},
		})
	}
}

func apiError(status int, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": kind, "message": kind},
		})
	}
}

func exerciseSchema() *Schema {
	return &Schema{
		Name: "test-exercise",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"answer":   map[string]any{"type": "string"},
			},
			"required":             []any{"question", "answer"},
			"additionalProperties": false,
		},
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var got openai.ChatCompletionRequest
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		chatCompletion(`{"question":"Choose the article: ___ apple","answer":"an"}`, "stop")(w, r)
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are an English grammar tutor.",
		Messages:  []Message{{Role: RoleUser, Content: "Generate one exercise."}},
		Schema:    exerciseSchema(),
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 || resp.Usage.TotalTokens != 65 {
		t.Fatalf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != StopEnd {
		t.Fatalf("expected stop reason %q, got %q", StopEnd, resp.StopReason)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("messages = %+v", got.Messages)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.JSONSchema == nil || got.ResponseFormat.JSONSchema.Name != "test-exercise" {
		t.Fatalf("response format not sent: %+v", got.ResponseFormat)
	}
}

func TestOpenAIProvider_StripsCodeFence(t *testing.T) {
	p := newTestOpenAIProvider(t, chatCompletion("```json\n{\"question\":\"q\",\"answer\":\"a\"}\n```", "stop"))

	resp, err := p.Generate(context.Background(), Request{Schema: exerciseSchema(), MaxTokens: 64})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"question":"q","answer":"a"}` {
		t.Fatalf("content = %s", resp.Content)
	}
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	p := newTestOpenAIProvider(t, chatCompletion(`{"question":"Which verb`, "length"))

	_, err := p.Generate(context.Background(), Request{Schema: exerciseSchema(), MaxTokens: 8})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
	}
	if Retryable(err) {
		t.Fatal("truncation should not be retried")
	}
}

func TestOpenAIProvider_InvalidJSON(t *testing.T) {
	p := newTestOpenAIProvider(t, chatCompletion(`{"question":"q"}`, "stop"))

	_, err := p.Generate(context.Background(), Request{Schema: exerciseSchema(), MaxTokens: 64})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantRate  bool
		retryable bool
	}{
		{"rate limit", http.StatusTooManyRequests, true, true},
		{"server error", http.StatusInternalServerError, false, true},
		{"bad key", http.StatusUnauthorized, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, apiError(tt.status, "error"))
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "test"}},
				MaxTokens: 100,
			})
			if err == nil {
				t.Fatal("expected error")
			}

			var rl *ErrRateLimit
			var unavail *ErrProviderUnavailable
			switch {
			case tt.wantRate && !errors.As(err, &rl):
				t.Fatalf("expected ErrRateLimit, got: %T (%v)", err, err)
			case !tt.wantRate && !errors.As(err, &unavail):
				t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
			case !tt.wantRate && unavail.Status != tt.status:
				t.Fatalf("status = %d, want %d", unavail.Status, tt.status)
			}
			if Retryable(err) != tt.retryable {
				t.Fatalf("Retryable = %v, want %v", Retryable(err), tt.retryable)
			}
		})
	}
}

func TestOpenAIProvider_BaseURLOverride(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o",
		BaseURL: "https://openrouter.ai/api/v1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o" {
		t.Fatalf("expected 'gpt-4o', got %q", p.ModelID())
	}
	if _, err := NewOpenAIProvider(OpenAIConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}
