package challengegen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated pack; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxAttempts bounds regeneration after a retryable validation failure.
	MaxAttempts int

	// MaxExistingTitles caps how many existing titles go into the prompt.
	MaxExistingTitles int

	// Levels is the number of level thresholds derived for the pack.
	Levels int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&AnswerValidator{},
			&DuplicateValidator{},
		},
		MaxTokens:         2048,
		Temperature:       0.8,
		MaxAttempts:       3,
		MaxExistingTitles: 30,
		Levels:            4,
	}
}
