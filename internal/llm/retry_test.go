package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

var okBatch = MockResponse{Content: json.RawMessage(`{"exercises":[]}`)}

func fail(err error) MockResponse { return MockResponse{Err: err} }

func down() error { return &ErrProviderUnavailable{Err: errors.New("connection reset")} }

func TestRetryProvider(t *testing.T) {
	invalid := func() error { return &ErrInvalidResponse{Content: json.RawMessage(`nope`), Err: errors.New("not JSON")} }

	tests := []struct {
		name      string
		script    []MockResponse
		wantCalls int
		wantErr   any // pointer to the expected error type, nil for success
	}{
		{"first attempt succeeds", []MockResponse{okBatch}, 1, nil},
		{"outage then success", []MockResponse{fail(down()), okBatch}, 2, nil},
		{"outage on every attempt", []MockResponse{fail(down()), fail(down()), fail(down()), okBatch}, 3, new(*ErrProviderUnavailable)},
		{"rate limit honours retry-after", []MockResponse{fail(&ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}), okBatch}, 2, nil},
		{"truncated output is final", []MockResponse{fail(&ErrMaxTokensExceeded{Content: json.RawMessage(`{"exer`)}), okBatch}, 1, new(*ErrMaxTokensExceeded)},
		{"bad key is final", []MockResponse{fail(&ErrProviderUnavailable{Status: 401, Err: errors.New("unauthorized")}), okBatch}, 1, new(*ErrProviderUnavailable)},
		{"invalid output retried once", []MockResponse{fail(invalid()), fail(invalid()), okBatch}, 2, new(*ErrInvalidResponse)},
		{"invalid then valid", []MockResponse{fail(invalid()), okBatch}, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			p := WithRetry(mock, RetryConfig{
				MaxAttempts: 3,
				InitialWait: time.Millisecond,
				MaxWait:     5 * time.Millisecond,
				Multiplier:  2,
			})

			resp, err := p.Generate(context.Background(), Request{})
			if got := mock.CallCount(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(resp.Content) != string(okBatch.Content) {
					t.Errorf("content = %s", resp.Content)
				}
				return
			}
			if !errors.As(err, tt.wantErr) {
				t.Fatalf("error = %T (%v), want %T", err, err, tt.wantErr)
			}
		})
	}
}

func TestRetryProvider_StopsWhenContextDone(t *testing.T) {
	mock := NewMockProvider(fail(down()), okBatch)
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("backoff wait ignored the context")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetryProvider_ZeroAttemptsCallsOnce(t *testing.T) {
	mock := NewMockProvider(okBatch)
	resp, err := WithRetry(mock, RetryConfig{}).Generate(context.Background(), Request{})
	if err != nil || resp == nil {
		t.Fatalf("Generate = %v, %v", resp, err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetryProvider_ModelID(t *testing.T) {
	if got := WithRetry(NewMockProvider(), RetryConfig{}).ModelID(); got != "mock" {
		t.Fatalf("ModelID = %q", got)
	}
}

func TestBackoff(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  10,
	}}
	for attempt := range 4 {
		if wait := r.backoff(attempt, down()); wait < 0 || wait > 1200*time.Millisecond {
			t.Fatalf("attempt %d: wait %s outside [0, 1.2s]", attempt, wait)
		}
	}
	if wait := r.backoff(0, &ErrRateLimit{RetryAfter: 7 * time.Second}); wait != 7*time.Second {
		t.Fatalf("retry-after wait = %s, want 7s", wait)
	}
}
