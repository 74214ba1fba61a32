package exercisegen

import "github.com/abhisek/grammarflow/internal/grammar"

const (
	maxQuestionLen    = 500
	maxAnswerLen      = 300
	maxExplanationLen = 1000
)

// StructuralValidator checks that required fields are present and within
// length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(ex *grammar.Exercise, _ Input) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), ExerciseID: ex.ID, Message: msg}
	}

	switch {
	case ex.Question == "":
		return fail("question is empty")
	case len(ex.Question) > maxQuestionLen:
		return fail("question exceeds 500 characters")
	case ex.Answer == "":
		return fail("answer is empty")
	case len(ex.Answer) > maxAnswerLen:
		return fail("answer exceeds 300 characters")
	case ex.Explanation == "":
		return fail("explanation is empty")
	case len(ex.Explanation) > maxExplanationLen:
		return fail("explanation exceeds 1000 characters")
	}

	if ex.Kind == grammar.KindTranslation && ex.TargetSentence == "" {
		return fail("translation has no target sentence")
	}
	return nil
}
