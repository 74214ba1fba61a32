package exercisegen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered validator chain run on every coerced
	// exercise. The first failure quarantines the exercise.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxAvoid caps the number of prior questions quoted in the prompt.
	MaxAvoid int

	// MaxAttempts is how many batches are requested before giving up
	// when every entry of a batch is quarantined.
	MaxAttempts int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ChoiceValidator{},
			&ScrambleValidator{},
		},
		MaxTokens:   4096,
		Temperature: 0.8,
		MaxAvoid:    15,
		MaxAttempts: 2,
	}
}
