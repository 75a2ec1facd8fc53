// Package summary shows the result of a finished game.
package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/galacticode/galacticode/internal/router"
	"github.com/galacticode/galacticode/internal/screen"
	"github.com/galacticode/galacticode/internal/ui/layout"
	"github.com/galacticode/galacticode/internal/ui/theme"
)

// Result is what the player achieved in one game.
type Result struct {
	Catalog        string
	FinalScore     int
	MaxScore       int
	Galaxies       int
	ChallengeCount int
	Level          int
	MaxLevel       int
	Attempts       int
	Correct        int
	Skipped        int
	Duration       time.Duration
}

// Accuracy returns correct answers over attempts, or 0 with no attempts.
func (r Result) Accuracy() float64 {
	if r.Attempts == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Attempts)
}

// SummaryScreen displays the game summary.
type SummaryScreen struct {
	result Result
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.StatusProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(result Result) *SummaryScreen {
	return &SummaryScreen{result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Mission Complete"
}

func (s *SummaryScreen) Status() layout.Status {
	return layout.Status{Points: s.result.FinalScore, Galaxies: s.result.Galaxies, Level: s.result.Level}
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	center := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	b.WriteString(center(theme.Title, "Congratulations! You've completed all challenges!"))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
		fmt.Sprintf("Final score: %d / %d", r.FinalScore, r.MaxScore)))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Galaxies: %d / %d        Level: %d / %d",
		r.Galaxies, r.ChallengeCount, r.Level, r.MaxLevel)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), stats))
	b.WriteString("\n")

	answers := fmt.Sprintf("Answers: %d        Correct: %d        Accuracy: %.0f%%        Skipped: %d",
		r.Attempts, r.Correct, r.Accuracy()*100, r.Skipped)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), answers))
	b.WriteString("\n\n")

	mins := int(r.Duration.Minutes())
	secs := int(r.Duration.Seconds()) % 60
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("%s  ·  %d:%02d", r.Catalog, mins, secs)))
	b.WriteString("\n\n")

	b.WriteString(center(theme.Hint, "More challenges coming soon!"))

	return lipgloss.PlaceVertical(height, lipgloss.Center, b.String())
}
