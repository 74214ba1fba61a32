package exercisegen

import (
	"encoding/json"
	"testing"

	"github.com/abhisek/grammarflow/internal/grammar"
)

func TestFlexString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"ex-1"`, "ex-1"},
		{`3`, "3"},
		{`null`, ""},
	}
	for _, tc := range tests {
		var f flexString
		if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if string(f) != tc.want {
			t.Errorf("flexString(%s) = %q, want %q", tc.in, f, tc.want)
		}
	}

	var f flexString
	if err := json.Unmarshal([]byte(`{"a":1}`), &f); err == nil {
		t.Error("expected error for object id")
	}
}

func TestNormalize_TrimsAndDropsTextOptions(t *testing.T) {
	r := rawExercise{
		ID:          " 7 ",
		Type:        "translation",
		Question:    "  Translate.  ",
		Options:     []string{"stray"},
		Answer:      " Hello. ",
		Explanation: "Greeting.",
	}
	ex, verr := r.normalize()
	if verr != nil {
		t.Fatalf("unexpected error: %v", verr)
	}
	if ex.ID != "7" || ex.Question != "Translate." || ex.Answer != "Hello." {
		t.Errorf("fields not trimmed: %+v", ex)
	}
	if ex.Options != nil {
		t.Errorf("expected options dropped, got %v", ex.Options)
	}
}

func TestNormalize_ScrambledFillsOptionsFromAnswer(t *testing.T) {
	r := rawExercise{Type: "SCRAMBLED_SENTENCE", Answer: "We  are  late", Options: []string{" ", ""}}
	ex, verr := r.normalize()
	if verr != nil {
		t.Fatalf("unexpected error: %v", verr)
	}
	want := []string{"We", "are", "late"}
	if len(ex.Options) != len(want) {
		t.Fatalf("options = %v, want %v", ex.Options, want)
	}
	for i := range want {
		if ex.Options[i] != want[i] {
			t.Errorf("options[%d] = %q, want %q", i, ex.Options[i], want[i])
		}
	}
}

func TestNormalize_UnknownType(t *testing.T) {
	_, verr := rawExercise{ID: "x", Type: "essay"}.normalize()
	if verr == nil {
		t.Fatal("expected error")
	}
	if verr.ExerciseID != "x" {
		t.Errorf("expected exercise id in error, got %q", verr.ExerciseID)
	}
}

func TestCoerce_BackfillsMissingAndDuplicateIDs(t *testing.T) {
	base := rawExercise{Type: "FILL_IN_BLANK", Question: "Q", Answer: "a", Explanation: "e"}
	one, two, three := base, base, base
	one.ID = "dup"
	two.ID = "dup"
	three.ID = ""

	exs, rejected := coerce([]rawExercise{one, two, three}, DefaultConfig().Validators, Input{})
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", rejected)
	}
	if len(exs) != 3 {
		t.Fatalf("expected 3 exercises, got %d", len(exs))
	}
	if exs[0].ID != "dup" {
		t.Errorf("first id should be kept, got %q", exs[0].ID)
	}
	ids := map[string]bool{}
	for _, ex := range exs {
		if ex.ID == "" {
			t.Error("empty id after coercion")
		}
		ids[ex.ID] = true
	}
	if len(ids) != 3 {
		t.Errorf("expected unique ids, got %v", ids)
	}
}

func TestCoerce_PreservesOrder(t *testing.T) {
	var raws []rawExercise
	for _, q := range []string{"first", "second", "third"} {
		raws = append(raws, rawExercise{Type: "FILL_IN_BLANK", Question: q, Answer: "a", Explanation: "e"})
	}
	exs, _ := coerce(raws, nil, Input{})
	for i, want := range []string{"first", "second", "third"} {
		if exs[i].Question != want {
			t.Errorf("exs[%d].Question = %q, want %q", i, exs[i].Question, want)
		}
	}
	if exs[0].Kind != grammar.KindFillInBlank {
		t.Errorf("unexpected kind %q", exs[0].Kind)
	}
}

func TestCoerce_ScrambledAnswerWithRepeatedSpaces(t *testing.T) {
	raw := rawExercise{
		ID:          "s1",
		Type:        "SCRAMBLED_SENTENCE",
		Question:    "Put the words in order.",
		Options:     []string{"happy", "She", "is"},
		Answer:      "She  is \t happy",
		Explanation: "Subject, verb, adjective.",
	}
	exs, rejected := coerce([]rawExercise{raw}, DefaultConfig().Validators, Input{})
	if len(rejected) != 0 || len(exs) != 1 {
		t.Fatalf("admitted %d, rejected %v", len(exs), rejected)
	}
	if exs[0].Answer != "She is happy" {
		t.Errorf("answer = %q, want single spaced", exs[0].Answer)
	}
	if !grammar.Evaluate(exs[0], grammar.Response{Words: []string{"She", "is", "happy"}}) {
		t.Error("the original word order should be accepted")
	}
}
