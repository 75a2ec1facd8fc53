package play

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/galacticode/galacticode/internal/ui/components"
	"github.com/galacticode/galacticode/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderCentered(width, height, theme.Incorrect.Render("Error: "+s.errMsg))
	case s.sess == nil:
		return renderCentered(width, height, theme.Hint.Render("Preparing for launch..."))
	case s.quitting:
		return renderCentered(width, height, renderQuitConfirm())
	}
	return s.renderChallenge(width, height)
}

func (s *PlayScreen) renderChallenge(width, height int) string {
	cw := min(width-8, 70)
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render(s.current.Title))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(cw).
		Render(s.current.Description))
	b.WriteString("\n\n")

	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	switch s.kind {
	case feedbackCorrect:
		b.WriteString(theme.Correct.Render(s.feedback))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Press Enter to continue"))
	case feedbackWrong:
		b.WriteString(theme.Incorrect.Render(s.feedback))
	}
	b.WriteString("\n\n")

	total := s.manager.Catalog().Len()
	b.WriteString(components.NewProgressBar("Galaxies", s.state.UnlockedCount, total, cw).View())

	card := theme.Card.Width(cw + 4).Render(b.String())
	return renderCentered(width, height, card)
}

func renderQuitConfirm() string {
	body := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("End this game?") +
		"\n\n" +
		theme.Hint.Render("Your progress so far will be saved to history.")
	return theme.Card.Render(body)
}

func renderCentered(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
