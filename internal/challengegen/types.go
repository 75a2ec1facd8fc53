// Package challengegen asks an LLM for new challenge packs. A pack is a
// complete challenge.Catalog that can be saved and played with --catalog.
package challengegen

import "context"

// Difficulty steers how hard the generated challenges are.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// GenerateInput describes the pack to generate.
type GenerateInput struct {
	// Topic is what the challenges are about, e.g. "Go slices".
	Topic string

	// Count is the number of challenges in the pack.
	Count int

	// Difficulty steers the wording and points of each challenge.
	Difficulty Difficulty

	// Name overrides the pack name chosen by the model.
	Name string

	// ExistingTitles are titles already used in other packs. The model is
	// asked to avoid them and a validator enforces it.
	ExistingTitles []string
}

// Generator produces challenge packs.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (*Pack, error)
}
