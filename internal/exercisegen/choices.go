package exercisegen

import "github.com/abhisek/grammarflow/internal/grammar"

const (
	minChoices = 2
	maxChoices = 6
)

// ChoiceValidator checks multiple choice options: distinct values and the
// answer present exactly once. Other kinds pass through.
type ChoiceValidator struct{}

func (v *ChoiceValidator) Name() string { return "choices" }

func (v *ChoiceValidator) Validate(ex *grammar.Exercise, _ Input) *ValidationError {
	if ex.Kind != grammar.KindMultipleChoice {
		return nil
	}
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), ExerciseID: ex.ID, Message: msg}
	}

	if len(ex.Options) < minChoices || len(ex.Options) > maxChoices {
		return fail("multiple choice needs between 2 and 6 options")
	}

	seen := make(map[string]bool, len(ex.Options))
	matches := 0
	for _, o := range ex.Options {
		if seen[o] {
			return fail("duplicate option " + o)
		}
		seen[o] = true
		if o == ex.Answer {
			matches++
		}
	}
	if matches != 1 {
		return fail("answer is not among the options")
	}
	return nil
}
