package challengegen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write challenges for a space-themed coding game for beginners.

Rules:
- Each challenge has a short title, a one or two sentence prompt, a single exact answer and a points value.
- Titles follow the form "Challenge N: Subject", numbered from 1.
- The answer is what the player types. Keep it to one word, number or short expression with no surrounding spaces.
- Answers are compared case-insensitively, so never rely on letter case to distinguish answers.
- Exactly one answer must be correct. Avoid questions with several acceptable spellings.
- Points grow with difficulty: easy challenges 5-15, medium 15-30, hard 30-50.
- Order the challenges from easiest to hardest.
- Do not reuse any title from the "already used" list.`

// buildUserMessage constructs the user message from GenerateInput and Config
// limits. feedback, when set, explains why the previous attempt was rejected.
func buildUserMessage(input GenerateInput, cfg Config, feedback string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", input.Topic)
	fmt.Fprintf(&b, "Number of challenges: %d\n", input.Count)
	fmt.Fprintf(&b, "Difficulty: %s\n", input.Difficulty)
	if input.Name != "" {
		fmt.Fprintf(&b, "Pack name: %s\n", input.Name)
	}

	b.WriteString("\nTitles already used:\n")
	b.WriteString(numberedList(input.ExistingTitles, cfg.MaxExistingTitles))

	if feedback != "" {
		b.WriteString("\n\nYour previous pack was rejected: ")
		b.WriteString(feedback)
		b.WriteString("\nFix this and return the whole pack again.")
	}
	return b.String()
}

// numberedList formats the most recent limit items, or "None".
func numberedList(items []string, limit int) string {
	if len(items) == 0 {
		return "None"
	}
	if limit > 0 && len(items) > limit {
		items = items[len(items)-limit:]
	}

	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it)
	}
	return strings.TrimRight(b.String(), "\n")
}
