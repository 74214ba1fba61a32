package llm

import (
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// Sent as app attribution so usage shows up under the app's name on
	// the OpenRouter dashboard.
	openRouterReferer = "https://github.com/abhisek/grammarflow"
	openRouterTitle   = "GrammarFlow"
)

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter's
// OpenAI-compatible endpoint. Model IDs are passed through unmapped.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL
	if config.BaseURL == "" {
		config.BaseURL = defaultOpenRouterBaseURL
	}
	config.HTTPClient = &http.Client{Transport: attributionTransport{next: http.DefaultTransport}}

	return &OpenRouterProvider{OpenAIProvider: &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}}, nil
}

// attributionTransport adds OpenRouter's app attribution headers.
type attributionTransport struct {
	next http.RoundTripper
}

func (t attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("HTTP-Referer", openRouterReferer)
	req.Header.Set("X-Title", openRouterTitle)
	return t.next.RoundTrip(req)
}
