package exercisegen

import (
	"context"

	"github.com/abhisek/grammarflow/internal/grammar"
)

// DefaultCount is the number of exercises in one practice batch.
const DefaultCount = 5

// Generator produces a batch of exercises for one practice session.
type Generator interface {
	// Generate returns an ordered, validated batch for the given input.
	// A batch is never partially populated with malformed entries: every
	// returned exercise has passed the validator chain.
	Generate(ctx context.Context, input Input) ([]grammar.Exercise, error)
}

// Input holds the context needed to generate a batch.
type Input struct {
	Topic      grammar.Topic
	Difficulty grammar.Difficulty

	// Count is the requested batch size. Zero means DefaultCount.
	Count int

	// Avoid holds recently asked questions for the topic. The generator
	// asks the model not to repeat them.
	Avoid []string
}

func (in Input) count() int {
	if in.Count > 0 {
		return in.Count
	}
	return DefaultCount
}
