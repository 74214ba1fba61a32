package exercisegen

import (
	"context"
	"embed"
	"fmt"
	"math/rand/v2"
	"path"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/grammarflow/internal/grammar"
)

//go:embed bank/*.yaml
var bankFS embed.FS

// bankFile is one topic's worth of offline exercises.
type bankFile struct {
	Topic     string        `yaml:"topic"`
	Exercises []rawExercise `yaml:"exercises"`
}

// BankGenerator serves batches from an embedded exercise bank. It needs no
// network access and backs the "offline" provider.
type BankGenerator struct {
	entries    map[string][]rawExercise
	validators []Validator

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBankGenerator loads the embedded bank. A nil rng seeds one randomly.
func NewBankGenerator(rng *rand.Rand) (*BankGenerator, error) {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	g := &BankGenerator{
		entries:    make(map[string][]rawExercise),
		validators: DefaultConfig().Validators,
		rng:        rng,
	}

	files, err := bankFS.ReadDir("bank")
	if err != nil {
		return nil, fmt.Errorf("read exercise bank: %w", err)
	}
	for _, f := range files {
		data, err := bankFS.ReadFile(path.Join("bank", f.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name(), err)
		}
		var bf bankFile
		if err := yaml.Unmarshal(data, &bf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.Name(), err)
		}
		if bf.Topic == "" {
			return nil, fmt.Errorf("%s: missing topic", f.Name())
		}
		g.entries[bf.Topic] = append(g.entries[bf.Topic], bf.Exercises...)
	}
	return g, nil
}

// Topics returns the topic IDs that have offline exercises.
func (g *BankGenerator) Topics() []string {
	ids := make([]string, 0, len(g.entries))
	for id := range g.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Generate draws a shuffled batch for the topic. Entries tagged with the
// requested difficulty (or untagged) come first and the rest of the topic
// fills up the batch. Questions in input.Avoid are skipped while enough
// others remain.
func (g *BankGenerator) Generate(ctx context.Context, input Input) ([]grammar.Exercise, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raws, ok := g.entries[input.Topic.ID]
	if !ok || len(raws) == 0 {
		return nil, fmt.Errorf("no offline exercises for topic %q", input.Topic.ID)
	}

	var preferred, others []rawExercise
	for _, r := range raws {
		if d, ok := grammar.ParseDifficulty(r.Difficulty); !ok || d == input.Difficulty {
			preferred = append(preferred, r)
		} else {
			others = append(others, r)
		}
	}

	first, rejected := coerce(preferred, g.validators, input)
	rest, rejectedRest := coerce(others, g.validators, input)
	rejected = append(rejected, rejectedRest...)
	if len(first)+len(rest) == 0 {
		return nil, &InvalidBatchError{Rejected: rejected}
	}

	g.mu.Lock()
	g.shuffle(first)
	g.shuffle(rest)
	g.mu.Unlock()

	exercises := append(first, rest...)
	n := input.count()
	if fresh := withoutAvoided(exercises, input.Avoid); len(fresh) >= n {
		exercises = fresh
	}
	if len(exercises) > n {
		exercises = exercises[:n]
	}
	return exercises, nil
}

func (g *BankGenerator) shuffle(exercises []grammar.Exercise) {
	g.rng.Shuffle(len(exercises), func(i, j int) {
		exercises[i], exercises[j] = exercises[j], exercises[i]
	})
}

func withoutAvoided(exercises []grammar.Exercise, avoid []string) []grammar.Exercise {
	if len(avoid) == 0 {
		return exercises
	}
	skip := make(map[string]bool, len(avoid))
	for _, q := range avoid {
		skip[q] = true
	}
	var out []grammar.Exercise
	for _, ex := range exercises {
		if !skip[ex.Prompt()] {
			out = append(out, ex)
		}
	}
	return out
}
