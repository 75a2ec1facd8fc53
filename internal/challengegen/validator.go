package challengegen

import (
	"fmt"
	"strings"

	"github.com/galacticode/galacticode/internal/progression"
)

// Validator checks a generated pack.
type Validator interface {
	// Name identifies the validator in error messages.
	Name() string

	// Validate returns nil if the pack passes.
	Validate(p *Pack, input GenerateInput) *ValidationError
}

// ValidationError describes why a pack failed validation.
type ValidationError struct {
	Validator string
	Message   string
	Retryable bool // whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks the challenge count and the catalog rules.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Pack, input GenerateInput) *ValidationError {
	if strings.TrimSpace(p.Catalog.Name) == "" {
		return &ValidationError{Validator: v.Name(), Message: "pack name is empty", Retryable: true}
	}
	if got := p.Catalog.Len(); got != input.Count {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d challenges, got %d", input.Count, got),
			Retryable: true,
		}
	}
	if err := p.Catalog.Validate(); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error(), Retryable: true}
	}
	return nil
}

// maxAnswerLen bounds what a player can reasonably type in one line.
const maxAnswerLen = 40

// AnswerValidator rejects answers a player could not match reliably.
type AnswerValidator struct{}

func (v *AnswerValidator) Name() string { return "answer" }

func (v *AnswerValidator) Validate(p *Pack, _ GenerateInput) *ValidationError {
	for i, ch := range p.Catalog.Challenges {
		a := ch.ExpectedAnswer
		switch {
		case len(a) > maxAnswerLen:
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("challenge %d: answer longer than %d characters", i+1, maxAnswerLen),
				Retryable: true,
			}
		case strings.ContainsAny(a, "\n\t"):
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("challenge %d: answer spans several lines", i+1),
				Retryable: true,
			}
		case strings.EqualFold(strings.TrimSpace(ch.Description), a):
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("challenge %d: prompt is the answer", i+1),
				Retryable: true,
			}
		}
	}
	return nil
}

// DuplicateValidator rejects titles repeated within the pack or already
// used elsewhere.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(p *Pack, input GenerateInput) *ValidationError {
	used := make(map[string]bool, len(input.ExistingTitles))
	for _, t := range input.ExistingTitles {
		used[progression.NormalizeAnswer(t)] = true
	}
	seen := make(map[string]int)
	for i, ch := range p.Catalog.Challenges {
		key := progression.NormalizeAnswer(ch.Title)
		if used[key] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("challenge %d: title %q is already used", i+1, ch.Title),
				Retryable: true,
			}
		}
		if prev, dup := seen[key]; dup {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("challenges %d and %d share a title", prev+1, i+1),
				Retryable: true,
			}
		}
		seen[key] = i
	}
	return nil
}
