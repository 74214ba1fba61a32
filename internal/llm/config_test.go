package llm

import "testing"

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConfigFromLookup(t *testing.T) {
	cfg := ConfigFromLookup(envMap(map[string]string{
		"GRAMMARFLOW_LLM_PROVIDER":   "openai",
		"GRAMMARFLOW_OPENAI_API_KEY": "sk-test",
		"GRAMMARFLOW_OPENAI_MODEL":   "gpt-4.1-mini",
		"GRAMMARFLOW_GEMINI_MODEL":   "gemini-flash",
	}))

	if cfg.Provider != "openai" {
		t.Errorf("provider = %q, want openai", cfg.Provider)
	}
	if cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-4.1-mini" {
		t.Errorf("openai config = %+v", cfg.OpenAI)
	}
	if cfg.Gemini.Model != "gemini-flash" {
		t.Errorf("gemini model = %q", cfg.Gemini.Model)
	}
	if cfg.Anthropic.Model != "claude-haiku" {
		t.Errorf("anthropic default model = %q", cfg.Anthropic.Model)
	}
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		env      map[string]string
		want     string
		wantOK   bool
		checkKey func(Config) string
	}{
		{
			name:   "explicit provider kept",
			cfg:    Config{Provider: "anthropic"},
			env:    map[string]string{"GEMINI_API_KEY": "g"},
			want:   "anthropic",
			wantOK: true,
		},
		{
			name:     "gemini preferred",
			cfg:      DefaultConfig(),
			env:      map[string]string{"GEMINI_API_KEY": "g", "OPENAI_API_KEY": "o"},
			want:     "gemini",
			wantOK:   true,
			checkKey: func(c Config) string { return c.Gemini.APIKey },
		},
		{
			name:     "openrouter last",
			cfg:      DefaultConfig(),
			env:      map[string]string{"OPENROUTER_API_KEY": "r"},
			want:     "openrouter",
			wantOK:   true,
			checkKey: func(c Config) string { return c.OpenRouter.APIKey },
		},
		{
			name:   "prefixed key wins",
			cfg:    Config{OpenAI: OpenAIConfig{APIKey: "prefixed"}},
			env:    map[string]string{"GEMINI_API_KEY": "g"},
			want:   "openai",
			wantOK: true,
		},
		{
			name:   "nothing found",
			cfg:    DefaultConfig(),
			env:    map[string]string{},
			want:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cfg.Discover(envMap(tt.env))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got.Provider != tt.want {
				t.Errorf("provider = %q, want %q", got.Provider, tt.want)
			}
			if tt.checkKey != nil && tt.checkKey(got) == "" {
				t.Error("discovered key not set")
			}
		})
	}
}

func TestNewProvider_WrapsWithRetry(t *testing.T) {
	p, err := NewProvider(t.Context(), Config{
		Provider: "openai",
		OpenAI:   OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini"},
	}, nil)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if _, ok := p.(*RetryProvider); !ok {
		t.Fatalf("provider = %T, want *RetryProvider", p)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Errorf("model = %q", p.ModelID())
	}
}

func TestNewProvider_RequiresKey(t *testing.T) {
	if _, err := NewProvider(t.Context(), Config{Provider: "gemini"}, nil); err == nil {
		t.Fatal("expected error without API key")
	}
	if _, err := NewProvider(t.Context(), Config{}, nil); err == nil {
		t.Fatal("expected error without provider")
	}
}

func TestLookupCost(t *testing.T) {
	if c := LookupCost("gpt-4o-mini"); c == nil || c.InputPerMTok != 0.15 {
		t.Errorf("gpt-4o-mini cost = %+v", c)
	}
	if c := LookupCost("google/gemini-2.5-flash"); c == nil || c.OutputPerMTok != 2.5 {
		t.Errorf("openrouter fallback = %+v", c)
	}
	if c := LookupCost("unknown-model"); c != nil {
		t.Errorf("expected nil for unknown model, got %+v", c)
	}
	c := ModelCost{InputPerMTok: 1, OutputPerMTok: 2}
	if got := c.Cost(1_000_000, 500_000); got != 2 {
		t.Errorf("Cost = %v, want 2", got)
	}
}
