package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/grammarflow/internal/store"
)

// LoggingProvider records every request it forwards in the event store,
// so `grammarflow llm` can show prompts, responses, latency and cost.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
}

// WithLogging wraps p. provider names the backend ("gemini", "openai",
// ...) in the recorded events.
func WithLogging(p Provider, provider string, events store.EventRepo) Provider {
	return &LoggingProvider{inner: p, provider: provider, events: events}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	ev := l.event(ctx, req, resp, err, time.Since(start))

	slog.Debug("llm request", logArgs(ctx,
		"provider", ev.Provider,
		"model", ev.Model,
		"purpose", ev.Purpose,
		"latency_ms", ev.LatencyMs,
		"input_tokens", ev.InputTokens,
		"output_tokens", ev.OutputTokens,
		"success", ev.Success,
	)...)

	// A run that was cancelled mid-request is still recorded.
	if recErr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); recErr != nil {
		slog.Warn("failed to record LLM request", "error", recErr)
	}
	return resp, err
}

func (l *LoggingProvider) event(ctx context.Context, req Request, resp *Response, err error, took time.Duration) store.LLMRequestEventData {
	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   took.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
		if resp.Model != "" {
			ev.Model = resp.Model
		}
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	return ev
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders the prompt as labelled sections for `llm view`.
func serializeRequest(req Request) string {
	var b strings.Builder
	section := func(label, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", label, body)
	}
	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		section(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			section("schema: "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
