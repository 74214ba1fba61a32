package exercisegen

import (
	"github.com/abhisek/grammarflow/internal/grammar"
	"github.com/abhisek/grammarflow/internal/llm"
)

func kindEnum() []any {
	kinds := grammar.AllKinds()
	out := make([]any, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

// BatchSchema defines the JSON schema for batch generation responses.
// Optional fields are required but may be empty so that strict
// structured-output modes accept the schema.
var BatchSchema = &llm.Schema{
	Name:        "grammar-exercise-batch",
	Description: "A batch of English grammar exercises with answers and explanations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"exercises": map[string]any{
				"type":        "array",
				"description": "The exercises in the order they should be asked",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Short identifier, unique within the batch",
						},
						"type": map[string]any{
							"type":        "string",
							"enum":        kindEnum(),
							"description": "How the learner answers the exercise",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The instruction or prompt shown to the learner",
						},
						"targetSentence": map[string]any{
							"type":        "string",
							"description": "The sentence being practiced, e.g. the sentence to translate or with a blank. Empty if not applicable.",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "MULTIPLE_CHOICE: exactly 4 distinct options. SCRAMBLED_SENTENCE: the words of the answer in random order. Otherwise empty.",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The correct answer. For MULTIPLE_CHOICE, the exact text of the correct option.",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "A short pedagogical explanation of the grammar rule",
						},
					},
					"required":             []any{"id", "type", "question", "targetSentence", "options", "answer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"exercises"},
		"additionalProperties": false,
	},
}
