package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrRateLimit indicates the provider returned 429.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the model answered with content that is
// not the JSON the request asked for.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down, unreachable or
// rejected the request.
type ErrProviderUnavailable struct {
	Status int
	Err    error
}

func (e *ErrProviderUnavailable) Error() string {
	switch {
	case e.Err == nil:
		return "LLM provider unavailable"
	case e.Status > 0:
		return fmt.Sprintf("LLM provider unavailable (HTTP %d): %v", e.Status, e.Err)
	default:
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was cut off at MaxTokens
// before the JSON was complete.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// classifyStatus turns an SDK error carrying an HTTP status into one of
// the typed errors above. header may be nil.
func classifyStatus(status int, header http.Header, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{RetryAfter: retryAfter(header), Err: err}
	}
	return &ErrProviderUnavailable{Status: status, Err: err}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(header http.Header) time.Duration {
	if header == nil {
		return 0
	}
	secs, err := strconv.Atoi(header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// Retryable reports whether err is worth another attempt. Client errors
// other than 429 and truncation are permanent; an invalid response is
// retryable (the caller bounds how often).
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false
	}
	var unavail *ErrProviderUnavailable
	if errors.As(err, &unavail) {
		s := unavail.Status
		return s == 0 || s >= 500 || s == http.StatusRequestTimeout
	}
	return true
}
