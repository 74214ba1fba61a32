package speech

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ProviderConfig configures a TTS backend.
type ProviderConfig struct {
	APIKey  string
	Model   string
	Voice   string
	BaseURL string
}

// Config selects and configures the speech stack.
type Config struct {
	// Provider is "gemini", "openai" or "none".
	Provider string
	Gemini   ProviderConfig
	OpenAI   ProviderConfig

	// CacheDir enables the file cache. Empty means DefaultCacheDir.
	CacheDir string

	// RedisURL enables the shared Redis cache instead of the file cache.
	RedisURL string
	CacheTTL time.Duration

	// NoCache disables caching entirely.
	NoCache bool

	Timeout time.Duration
}

// NewSynthesizer builds the configured synthesizer with its cache.
// It returns (nil, nil) when speech is disabled.
func NewSynthesizer(ctx context.Context, cfg Config) (Synthesizer, error) {
	var (
		synth Synthesizer
		voice Voice
		err   error
	)
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "gemini":
		var g *GeminiSynthesizer
		g, err = NewGeminiSynthesizer(ctx, cfg.Gemini)
		if err == nil {
			synth, voice = g, Voice{Provider: "gemini", Model: g.model, Name: g.voice}
		}
	case "openai":
		var o *OpenAISynthesizer
		o, err = NewOpenAISynthesizer(cfg.OpenAI)
		if err == nil {
			synth, voice = o, Voice{Provider: "openai", Model: o.model, Name: o.voice}
		}
	default:
		return nil, fmt.Errorf("unknown speech provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.NoCache {
		return synth, nil
	}
	cache, err := newCache(ctx, cfg)
	if err != nil {
		slog.Warn("speech cache disabled", "error", err)
		return synth, nil
	}
	return NewCachedSynthesizer(synth, cache, voice), nil
}

func newCache(ctx context.Context, cfg Config) (Cache, error) {
	if cfg.RedisURL != "" {
		ttl := cfg.CacheTTL
		if ttl <= 0 {
			ttl = 7 * 24 * time.Hour
		}
		return NewRedisCache(ctx, cfg.RedisURL, ttl)
	}
	dir := cfg.CacheDir
	if dir == "" {
		var err error
		if dir, err = DefaultCacheDir(); err != nil {
			return nil, err
		}
	}
	return NewFileCache(dir)
}

// New builds a Service with local playback. It returns (nil, nil) when
// speech is disabled.
func New(ctx context.Context, cfg Config) (*Service, error) {
	synth, err := NewSynthesizer(ctx, cfg)
	if err != nil || synth == nil {
		return nil, err
	}
	player, err := NewCommandPlayer()
	if err != nil {
		return nil, err
	}
	return NewService(synth, player, cfg.Timeout), nil
}
