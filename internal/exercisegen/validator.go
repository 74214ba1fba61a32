package exercisegen

import (
	"fmt"

	"github.com/abhisek/grammarflow/internal/grammar"
)

// Validator checks a coerced exercise before it is admitted to a batch.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator (for error messages
	// and logging), e.g. "structural", "choices", "scramble".
	Name() string

	// Validate returns nil if the exercise passes.
	Validate(ex *grammar.Exercise, input Input) *ValidationError
}

// ValidationError describes why an exercise was quarantined.
type ValidationError struct {
	Validator  string // Name of the validator that failed
	ExerciseID string // ID as supplied by the provider, may be empty
	Message    string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	if e.ExerciseID != "" {
		return fmt.Sprintf("validator %q: exercise %q: %s", e.Validator, e.ExerciseID, e.Message)
	}
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
