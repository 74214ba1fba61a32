package exercisegen

import (
	"slices"

	"github.com/abhisek/grammarflow/internal/grammar"
)

// ScrambleValidator checks that the word tokens of a scrambled sentence
// are a permutation of the answer's words.
type ScrambleValidator struct{}

func (v *ScrambleValidator) Name() string { return "scramble" }

func (v *ScrambleValidator) Validate(ex *grammar.Exercise, _ Input) *ValidationError {
	if ex.Kind != grammar.KindScrambledSentence {
		return nil
	}

	want := grammar.Tokens(ex.Answer)
	if len(want) < 2 {
		return &ValidationError{
			Validator:  v.Name(),
			ExerciseID: ex.ID,
			Message:    "scrambled answer needs at least two words",
		}
	}

	got := slices.Clone(ex.Options)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		return &ValidationError{
			Validator:  v.Name(),
			ExerciseID: ex.ID,
			Message:    "options are not the words of the answer",
		}
	}
	return nil
}
