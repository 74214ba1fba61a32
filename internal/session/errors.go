package session

import (
	"errors"
	"fmt"

	"github.com/abhisek/grammarflow/internal/grammar"
)

var (
	// ErrNoTopic is returned by StartPractice before a topic is selected.
	ErrNoTopic = errors.New("session: no topic selected")

	// ErrStaleResponse is returned when a batch arrives for a request that
	// has since been superseded. The batch is discarded.
	ErrStaleResponse = errors.New("session: stale content response")

	// ErrNothingToRetry is returned by Retry before any practice request.
	ErrNothingToRetry = errors.New("session: no practice request to retry")
)

// FetchErrorMessage is the learner-facing text for a failed batch request.
const FetchErrorMessage = "We encountered a hiccup while crafting your English module. Please try again."

// ContentFetchError reports that a batch could not be obtained for a
// topic and difficulty. Session state is left unchanged so the same
// request can be retried.
type ContentFetchError struct {
	Topic      grammar.Topic
	Difficulty grammar.Difficulty
	Err        error
}

func (e *ContentFetchError) Error() string {
	return fmt.Sprintf("fetch %s exercises for %q: %v", e.Difficulty, e.Topic.ID, e.Err)
}

func (e *ContentFetchError) Unwrap() error { return e.Err }

// Message returns the learner-facing description.
func (e *ContentFetchError) Message() string { return FetchErrorMessage }
