package challengegen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/galacticode/galacticode/internal/challenge"
	"github.com/galacticode/galacticode/internal/llm"
)

// ErrInvalidInput is returned when GenerateInput cannot produce a pack.
var ErrInvalidInput = errors.New("invalid generate input")

// Pack is a generated catalog plus how it was produced.
type Pack struct {
	Catalog  challenge.Catalog
	Model    string
	Attempts int
	Usage    llm.Usage
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// packOutput is the raw LLM response before validation.
type packOutput struct {
	Name       string                `json:"name"`
	Challenges []challenge.Challenge `json:"challenges"`
}

// Generate asks the model for a pack and validates it. Schema violations
// and retryable validation failures are fed back to the model as a new
// attempt, up to Config.MaxAttempts.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*Pack, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	if input.Difficulty == "" {
		input.Difficulty = DifficultyEasy
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeChallengeGen)

	attempts := max(g.config.MaxAttempts, 1)
	usage := llm.Usage{}
	feedback := ""

	for attempt := 1; ; attempt++ {
		req := llm.Request{
			System: systemPrompt,
			Messages: []llm.Message{
				{Role: llm.RoleUser, Content: buildUserMessage(input, g.config, feedback)},
			},
			Schema:      PackSchema,
			MaxTokens:   g.config.MaxTokens,
			Temperature: g.config.Temperature,
		}

		resp, err := g.provider.Generate(ctx, req)
		if err != nil {
			// A pack that still breaks the schema after the provider's own
			// repair gets a fresh attempt with the violations in the prompt.
			var lerr *llm.Error
			if errors.As(err, &lerr) && lerr.Kind == llm.KindInvalid && attempt < attempts {
				feedback = lerr.Feedback()
				continue
			}
			return nil, fmt.Errorf("LLM generation failed: %w", err)
		}
		usage = usage.Add(resp.Usage)

		var raw packOutput
		if err := json.Unmarshal(resp.Content, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response: %w", err)
		}

		p := &Pack{
			Catalog:  g.toCatalog(raw, input),
			Model:    resp.Model,
			Attempts: attempt,
			Usage:    usage,
		}

		verr := g.validate(p, input)
		if verr == nil {
			return p, nil
		}
		if !verr.Retryable || attempt >= attempts {
			return nil, verr
		}
		feedback = verr.Message
	}
}

func (g *LLMGenerator) validate(p *Pack, input GenerateInput) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(p, input); verr != nil {
			return verr
		}
	}
	return nil
}

func (g *LLMGenerator) toCatalog(raw packOutput, input GenerateInput) challenge.Catalog {
	c := challenge.Catalog{
		Name:       strings.TrimSpace(raw.Name),
		Challenges: make([]challenge.Challenge, len(raw.Challenges)),
	}
	if input.Name != "" {
		c.Name = input.Name
	}
	for i, ch := range raw.Challenges {
		c.Challenges[i] = challenge.Challenge{
			Title:          strings.TrimSpace(ch.Title),
			Description:    strings.TrimSpace(ch.Description),
			ExpectedAnswer: strings.TrimSpace(ch.ExpectedAnswer),
			Points:         ch.Points,
		}
	}
	c.Thresholds = DeriveThresholds(c.Challenges, g.config.Levels)
	return c
}

func checkInput(input GenerateInput) error {
	switch {
	case strings.TrimSpace(input.Topic) == "":
		return fmt.Errorf("%w: topic is required", ErrInvalidInput)
	case input.Count < 1:
		return fmt.Errorf("%w: count must be at least 1, got %d", ErrInvalidInput, input.Count)
	case input.Difficulty != "" && !input.Difficulty.Valid():
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, input.Difficulty)
	}
	return nil
}
