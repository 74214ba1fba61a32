package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/grammarflow/internal/store"
)

// NewProvider builds the configured backend and wraps it so that calls
// go caller → retry → logging → backend. Logging is skipped when events
// is nil.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	if events != nil {
		backend = WithLogging(backend, cfg.Provider, events)
	}
	return WithRetry(backend, cfg.Retry), nil
}

func newBackend(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		return NewOpenRouterProvider(cfg.OpenRouter)
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}
