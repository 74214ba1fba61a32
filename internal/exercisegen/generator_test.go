package exercisegen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/grammarflow/internal/grammar"
	"github.com/abhisek/grammarflow/internal/llm"
)

func testInput() Input {
	topic, _ := grammar.GetTopic("tenses")
	return Input{Topic: topic, Difficulty: grammar.Beginner}
}

func validBatchJSON() json.RawMessage {
	return json.RawMessage(`{"exercises": [
		{
			"id": "1",
			"type": "MULTIPLE_CHOICE",
			"question": "Choose the correct form.",
			"targetSentence": "She ___ to work every day.",
			"options": ["go", "goes", "going", "gone"],
			"answer": "goes",
			"explanation": "Add -s for he, she and it in the present simple."
		},
		{
			"id": "2",
			"type": "FILL_IN_BLANK",
			"question": "Complete with the past simple of 'see'.",
			"targetSentence": "I ___ him yesterday.",
			"options": [],
			"answer": "saw",
			"explanation": "'See' is irregular: see, saw, seen."
		},
		{
			"id": "3",
			"type": "SCRAMBLED_SENTENCE",
			"question": "Put the words in order.",
			"targetSentence": "",
			"options": ["been", "I", "have", "waiting"],
			"answer": "I have been waiting",
			"explanation": "Present perfect continuous: have been + -ing."
		},
		{
			"id": "4",
			"type": "TRANSLATION",
			"question": "Translate into English.",
			"targetSentence": "Ella vive aquí.",
			"options": [],
			"answer": "She lives here.",
			"explanation": "Present simple for permanent situations."
		},
		{
			"id": "5",
			"type": "MULTIPLE_CHOICE",
			"question": "Choose the correct form.",
			"targetSentence": "They ___ TV now.",
			"options": ["watch", "are watching", "watched", "watches"],
			"answer": "are watching",
			"explanation": "Present continuous for actions happening now."
		}
	]}`)
}

func TestGenerate_ValidBatch(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validBatchJSON()})
	gen := New(mock, DefaultConfig())

	exs, err := gen.Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exs) != 5 {
		t.Fatalf("expected 5 exercises, got %d", len(exs))
	}

	wantKinds := []grammar.Kind{
		grammar.KindMultipleChoice,
		grammar.KindFillInBlank,
		grammar.KindScrambledSentence,
		grammar.KindTranslation,
		grammar.KindMultipleChoice,
	}
	for i, k := range wantKinds {
		if exs[i].Kind != k {
			t.Errorf("exercise %d: kind = %q, want %q", i, exs[i].Kind, k)
		}
	}
	if exs[0].ID != "1" {
		t.Errorf("expected provider id to be kept, got %q", exs[0].ID)
	}
	if exs[1].Options != nil {
		t.Errorf("expected no options for fill-in-blank, got %v", exs[1].Options)
	}
}

func TestGenerate_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validBatchJSON()})
	gen := New(mock, DefaultConfig())

	input := testInput()
	input.Avoid = []string{"Choose the correct form. He ___ late."}
	if _, err := gen.Generate(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Schema != BatchSchema {
		t.Error("expected batch schema on request")
	}
	if !strings.Contains(req.System, "expert English Grammar Tutor") {
		t.Error("missing tutor system prompt")
	}
	msg := req.Messages[0].Content
	for _, want := range []string{"Topic: Verb Tenses", "Level: Beginner", "Number of exercises: 5", "He ___ late."} {
		if !strings.Contains(msg, want) {
			t.Errorf("user message missing %q:\n%s", want, msg)
		}
	}
}

func TestGenerate_QuarantinesMalformedEntries(t *testing.T) {
	raw := json.RawMessage(`{"exercises": [
		{"id": "a", "type": "ESSAY", "question": "Write.", "targetSentence": "", "options": [], "answer": "x", "explanation": "x"},
		{"id": "b", "type": "MULTIPLE_CHOICE", "question": "Pick.", "targetSentence": "", "options": ["a", "b", "c", "d"], "answer": "e", "explanation": "none match"},
		{"id": "c", "type": "FILL_IN_BLANK", "question": "", "targetSentence": "", "options": [], "answer": "x", "explanation": "x"},
		{"id": "d", "type": "fill_in_blank", "question": "Complete.", "targetSentence": "I ___ tired.", "options": [], "answer": "am", "explanation": "Use am with I."}
	]}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	gen := New(mock, DefaultConfig())

	exs, err := gen.Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exs) != 1 {
		t.Fatalf("expected 1 surviving exercise, got %d", len(exs))
	}
	if exs[0].ID != "d" || exs[0].Kind != grammar.KindFillInBlank {
		t.Errorf("unexpected survivor: %+v", exs[0])
	}
}

func TestGenerate_AllInvalidRetriesThenFails(t *testing.T) {
	bad := json.RawMessage(`{"exercises": [
		{"id": "a", "type": "MULTIPLE_CHOICE", "question": "Pick.", "targetSentence": "", "options": ["a", "a"], "answer": "a", "explanation": "dup"}
	]}`)
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: bad},
		llm.MockResponse{Content: json.RawMessage(`not json`)},
	)
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), testInput())
	if err == nil {
		t.Fatal("expected error")
	}
	var batchErr *InvalidBatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected *InvalidBatchError, got %T", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 attempts, got %d", mock.CallCount())
	}
}

func TestGenerate_RetrySucceeds(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"exercises": []}`)},
		llm.MockResponse{Content: validBatchJSON()},
	)
	gen := New(mock, DefaultConfig())

	exs, err := gen.Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exs) != 5 {
		t.Errorf("expected 5 exercises, got %d", len(exs))
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), testInput())
	var rl *llm.ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected wrapped ErrRateLimit, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("provider errors are not retried by the generator, got %d calls", mock.CallCount())
	}
}

func TestGenerate_TruncatesToCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validBatchJSON()})
	gen := New(mock, DefaultConfig())

	input := testInput()
	input.Count = 3
	exs, err := gen.Generate(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exs) != 3 {
		t.Errorf("expected 3 exercises, got %d", len(exs))
	}
}

func TestGenerate_SetsPurpose(t *testing.T) {
	var got string
	p := purposeProvider{Provider: llm.NewMockProvider(llm.MockResponse{Content: validBatchJSON()}), seen: &got}
	gen := New(p, DefaultConfig())

	if _, err := gen.Generate(context.Background(), testInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != PurposeBatch {
		t.Errorf("purpose = %q, want %q", got, PurposeBatch)
	}
}

type purposeProvider struct {
	llm.Provider
	seen *string
}

func (p purposeProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	*p.seen = llm.PurposeFrom(ctx)
	return p.Provider.Generate(ctx, req)
}
