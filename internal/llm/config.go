package llm

import (
	"fmt"
	"os"
	"time"
)

// EnvPrefix prefixes every provider environment variable.
const EnvPrefix = "GRAMMARFLOW_"

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter".
	// Empty means discover from the standard API key variables.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single LLM request including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-pro"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with defaults and no provider selected.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-pro"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from GRAMMARFLOW_* variables, falling
// back to defaults for unset values.
func ConfigFromEnv() Config {
	return ConfigFromLookup(os.Getenv)
}

// ConfigFromLookup is ConfigFromEnv with an explicit lookup function.
func ConfigFromLookup(getenv func(string) string) Config {
	cfg := DefaultConfig()
	set := func(dst *string, key string) {
		if v := getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}

	set(&cfg.Provider, "LLM_PROVIDER")
	set(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "ANTHROPIC_MODEL")
	set(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	set(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "GEMINI_MODEL")
	set(&cfg.OpenRouter.APIKey, "OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "OPENROUTER_MODEL")

	return cfg
}

// Discover fills in the provider from the standard API key variables
// when none is selected. Keys are probed in the order Gemini, OpenAI,
// Anthropic, OpenRouter. It reports false if no provider is available.
func (c Config) Discover(getenv func(string) string) (Config, bool) {
	if c.Provider != "" {
		return c, true
	}
	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"GEMINI_API_KEY", "gemini", &c.Gemini.APIKey},
		{"OPENAI_API_KEY", "openai", &c.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", "anthropic", &c.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", "openrouter", &c.OpenRouter.APIKey},
	}
	// Explicit GRAMMARFLOW_* keys win over the standard names.
	for _, p := range probes {
		if *p.key != "" {
			c.Provider = p.provider
			return c, true
		}
	}
	for _, p := range probes {
		if k := getenv(p.env); k != "" {
			c.Provider = p.provider
			*p.key = k
			return c, true
		}
	}
	return c, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("%sANTHROPIC_API_KEY is required for the anthropic provider", EnvPrefix)
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("%sOPENAI_API_KEY is required for the openai provider", EnvPrefix)
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("%sGEMINI_API_KEY is required for the gemini provider", EnvPrefix)
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("%sOPENROUTER_API_KEY is required for the openrouter provider", EnvPrefix)
		}
	case "":
		return fmt.Errorf("no LLM provider configured")
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
