package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     OpenRouterConfig
		wantErr bool
	}{
		{"valid config", OpenRouterConfig{APIKey: "sk-or-test", Model: "google/gemini-2.5-flash"}, false},
		{"empty API key", OpenRouterConfig{Model: "google/gemini-2.5-flash"}, true},
		{"model pass-through", OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenRouterProvider(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && p.ModelID() != tt.cfg.Model {
				t.Errorf("model = %q, want %q", p.ModelID(), tt.cfg.Model)
			}
		})
	}
}

func TestOpenRouterProvider_SendsAttribution(t *testing.T) {
	var referer, title, auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer, title, auth = r.Header.Get("HTTP-Referer"), r.Header.Get("X-Title"), r.Header.Get("Authorization")
		chatCompletion(`{"question":"q","answer":"a"}`, "stop")(w, r)
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "google/gemini-2.5-flash",
		BaseURL: server.URL + "/v1",
	})
	if err != nil {
		t.Fatalf("NewOpenRouterProvider: %v", err)
	}
	if _, err := p.Generate(context.Background(), Request{Schema: exerciseSchema(), MaxTokens: 64}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if referer != openRouterReferer || title != openRouterTitle {
		t.Errorf("attribution headers = %q, %q", referer, title)
	}
	if auth != "Bearer sk-or-test" {
		t.Errorf("Authorization = %q", auth)
	}
}
