package exercisegen

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/grammarflow/internal/grammar"
)

// flexString decodes a JSON string or number. Models occasionally emit
// numeric ids.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// rawExercise is an untrusted exercise as supplied by a provider.
type rawExercise struct {
	ID             flexString `json:"id" yaml:"id"`
	Type           string     `json:"type" yaml:"type"`
	Question       string     `json:"question" yaml:"question"`
	TargetSentence string     `json:"targetSentence" yaml:"targetSentence"`
	Options        []string   `json:"options" yaml:"options"`
	Answer         string     `json:"answer" yaml:"answer"`
	Explanation    string     `json:"explanation" yaml:"explanation"`

	// Difficulty is only set by the offline bank.
	Difficulty string `json:"-" yaml:"difficulty"`
}

// batchOutput is the raw LLM response before coercion.
type batchOutput struct {
	Exercises []rawExercise `json:"exercises"`
}

// normalize converts a raw entry into the strict exercise shape. Fields
// are trimmed, options are dropped for text kinds, scrambled answers are
// collapsed to single spaces and scrambled sentences without tokens get
// them from the answer.
func (r rawExercise) normalize() (grammar.Exercise, *ValidationError) {
	kind, ok := grammar.ParseKind(r.Type)
	if !ok {
		return grammar.Exercise{}, &ValidationError{
			Validator:  "structural",
			ExerciseID: string(r.ID),
			Message:    "unknown exercise type " + r.Type,
		}
	}

	ex := grammar.Exercise{
		ID:             strings.TrimSpace(string(r.ID)),
		Kind:           kind,
		Question:       strings.TrimSpace(r.Question),
		TargetSentence: strings.TrimSpace(r.TargetSentence),
		Answer:         strings.TrimSpace(r.Answer),
		Explanation:    strings.TrimSpace(r.Explanation),
	}

	switch kind {
	case grammar.KindMultipleChoice, grammar.KindScrambledSentence:
		for _, o := range r.Options {
			if o = strings.TrimSpace(o); o != "" {
				ex.Options = append(ex.Options, o)
			}
		}
	}
	if kind == grammar.KindScrambledSentence {
		// Answers are checked against the picked words joined by single
		// spaces, so the answer must be spelled the same way.
		ex.Answer = strings.Join(grammar.Tokens(ex.Answer), " ")
		if len(ex.Options) == 0 {
			ex.Options = grammar.Tokens(ex.Answer)
		}
	}
	return ex, nil
}

// coerce runs every raw entry through normalization and the validator
// chain. Entries that fail are returned as rejected. Surviving entries
// with a missing or duplicate id get a fresh UUID.
func coerce(raws []rawExercise, validators []Validator, input Input) ([]grammar.Exercise, []*ValidationError) {
	var (
		out      []grammar.Exercise
		rejected []*ValidationError
		seen     = make(map[string]bool, len(raws))
	)

	for _, r := range raws {
		ex, verr := r.normalize()
		if verr == nil {
			for _, v := range validators {
				if verr = v.Validate(&ex, input); verr != nil {
					break
				}
			}
		}
		if verr != nil {
			rejected = append(rejected, verr)
			continue
		}

		if ex.ID == "" || seen[ex.ID] {
			ex.ID = uuid.NewString()
		}
		seen[ex.ID] = true
		out = append(out, ex)
	}
	return out, rejected
}
