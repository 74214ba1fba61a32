package grammar

import "strings"

// Difficulty is the pedagogical level used to shape exercise content.
type Difficulty string

const (
	Beginner     Difficulty = "BEGINNER"
	Intermediate Difficulty = "INTERMEDIATE"
	Advanced     Difficulty = "ADVANCED"
)

// AllDifficulties returns all difficulties in display order.
func AllDifficulties() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Advanced}
}

// ParseDifficulty accepts a difficulty name in any case.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case Beginner, Intermediate, Advanced:
		return d, true
	}
	return "", false
}

// Label returns the human-readable name, e.g. "Intermediate".
func (d Difficulty) Label() string {
	switch d {
	case Beginner:
		return "Beginner"
	case Intermediate:
		return "Intermediate"
	case Advanced:
		return "Advanced"
	default:
		return string(d)
	}
}

// Blurb returns the one-line description shown next to the difficulty.
func (d Difficulty) Blurb() string {
	switch d {
	case Beginner:
		return "Fundamentals & common rules"
	case Intermediate:
		return "Complexity & nuance"
	case Advanced:
		return "Advanced exceptions & formal styles"
	default:
		return ""
	}
}

// Kind determines the response shape and evaluation rule of an exercise.
type Kind string

const (
	KindMultipleChoice    Kind = "MULTIPLE_CHOICE"
	KindFillInBlank       Kind = "FILL_IN_BLANK"
	KindScrambledSentence Kind = "SCRAMBLED_SENTENCE"
	KindTranslation       Kind = "TRANSLATION"
)

// AllKinds returns every exercise kind.
func AllKinds() []Kind {
	return []Kind{KindMultipleChoice, KindFillInBlank, KindScrambledSentence, KindTranslation}
}

// ParseKind accepts a kind name in any case, with "-" or spaces in place
// of underscores ("fill-in-blank", "Multiple choice").
func ParseKind(s string) (Kind, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	k := Kind(norm)
	switch k {
	case KindMultipleChoice, KindFillInBlank, KindScrambledSentence, KindTranslation:
		return k, true
	}
	return "", false
}

// Label returns a short display name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindMultipleChoice:
		return "Multiple choice"
	case KindFillInBlank:
		return "Fill in the blank"
	case KindScrambledSentence:
		return "Unscramble the sentence"
	case KindTranslation:
		return "Translation"
	default:
		return string(k)
	}
}

// Exercise is a single practice item. Exercises are created by a content
// provider and never modified afterwards.
type Exercise struct {
	// ID is unique within a batch.
	ID string `json:"id"`

	Kind Kind `json:"type"`

	// Question is the prompt shown to the learner.
	Question string `json:"question"`

	// TargetSentence is optional context, e.g. the sentence to translate.
	TargetSentence string `json:"targetSentence,omitempty"`

	// Options holds the choices for multiple choice and the word tokens
	// for scrambled sentences. Empty for the text-entry kinds.
	Options []string `json:"options,omitempty"`

	// Answer is the canonical correct answer.
	Answer string `json:"answer"`

	// Explanation is the grammar rule shown after answering.
	Explanation string `json:"explanation"`
}

// SpeakText returns the sentence read aloud for this exercise.
func (e Exercise) SpeakText() string {
	if e.TargetSentence != "" {
		return e.TargetSentence
	}
	return e.Answer
}

// Prompt returns the question followed by its target sentence, if any.
// It identifies an exercise's content across batches.
func (e Exercise) Prompt() string {
	if e.TargetSentence == "" {
		return e.Question
	}
	return e.Question + " " + e.TargetSentence
}

// Tokens splits s on whitespace, discarding empty tokens.
func Tokens(s string) []string {
	return strings.Fields(s)
}
