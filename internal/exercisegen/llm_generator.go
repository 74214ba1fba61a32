package exercisegen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/abhisek/grammarflow/internal/grammar"
	"github.com/abhisek/grammarflow/internal/llm"
)

// PurposeBatch labels batch generation requests in the LLM event log.
const PurposeBatch = "exercise-batch"

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate requests a batch from the model and coerces it into exercises.
// Malformed entries are dropped; a batch with no usable entry is requested
// again up to Config.MaxAttempts times.
func (g *LLMGenerator) Generate(ctx context.Context, input Input) ([]grammar.Exercise, error) {
	ctx = llm.WithAttrs(llm.WithPurpose(ctx, PurposeBatch),
		slog.String("topic", input.Topic.ID),
		slog.String("difficulty", string(input.Difficulty)),
	)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	attempts := max(g.config.MaxAttempts, 1)
	var lastErr error
	for attempt := range attempts {
		resp, err := g.provider.Generate(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("LLM generation failed: %w", err)
		}

		var raw batchOutput
		if err := json.Unmarshal(resp.Content, &raw); err != nil {
			lastErr = &InvalidBatchError{Err: fmt.Errorf("parse LLM response: %w", err)}
			slog.Warn("discarding undecodable exercise batch", "attempt", attempt+1, "error", err)
			continue
		}

		exercises, rejected := coerce(raw.Exercises, g.config.Validators, input)
		for _, r := range rejected {
			slog.Warn("quarantined generated exercise",
				"topic", input.Topic.ID,
				"validator", r.Validator,
				"exercise", r.ExerciseID,
				"reason", r.Message,
			)
		}
		if len(exercises) == 0 {
			lastErr = &InvalidBatchError{Rejected: rejected}
			continue
		}

		if n := input.count(); len(exercises) > n {
			exercises = exercises[:n]
		}
		slog.Debug("generated exercise batch",
			"topic", input.Topic.ID,
			"difficulty", input.Difficulty,
			"exercises", len(exercises),
			"rejected", len(rejected),
			"model", resp.Model,
		)
		return exercises, nil
	}

	return nil, lastErr
}
