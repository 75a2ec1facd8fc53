// Package history lists past games recorded in the event store.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/galacticode/galacticode/internal/router"
	"github.com/galacticode/galacticode/internal/screen"
	"github.com/galacticode/galacticode/internal/store"
	"github.com/galacticode/galacticode/internal/ui/layout"
	"github.com/galacticode/galacticode/internal/ui/theme"
)

// Repo is the part of store.EventRepo the screen reads.
type Repo interface {
	QuerySessions(ctx context.Context, opts store.QueryOpts) ([]store.SessionSummary, error)
	SessionAnswers(ctx context.Context, sessionID string) ([]store.AnswerRecord, error)
}

// sessionLimit caps how many games the screen lists.
const sessionLimit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionSummary
	Err      error
}

type answersLoadedMsg struct {
	SessionID string
	Answers   []store.AnswerRecord
	Err       error
}

// HistoryScreen displays past games; Enter expands the answers of one.
type HistoryScreen struct {
	repo     Repo
	sessions []store.SessionSummary
	answers  map[string][]store.AnswerRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo Repo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		answers:  make(map[string][]store.AnswerRecord),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		sessions, err := s.repo.QuerySessions(context.Background(), store.QueryOpts{Limit: sessionLimit})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answers"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.answers[msg.SessionID] = msg.Answers
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			return s, s.toggle()
		}
	}
	return s, nil
}

// toggle expands or collapses the selected game, loading its answers the
// first time.
func (s *HistoryScreen) toggle() tea.Cmd {
	if s.selected >= len(s.sessions) {
		return nil
	}
	s.expanded[s.selected] = !s.expanded[s.selected]

	id := s.sessions[s.selected].SessionID
	if _, ok := s.answers[id]; ok || !s.expanded[s.selected] {
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		answers, err := repo.SessionAnswers(context.Background(), id)
		return answersLoadedMsg{SessionID: id, Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(st lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, st.Render(text))
	}

	if s.errMsg != "" {
		return "\n\n" + center(lipgloss.NewStyle().Foreground(theme.Error), "Error: "+s.errMsg)
	}
	if !s.loaded {
		return "\n\n" + center(lipgloss.NewStyle().Foreground(theme.TextDim), "Loading history...")
	}
	if len(s.sessions) == 0 {
		return "\n\n" + center(theme.Hint, "No games yet. Start exploring!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Accent).Bold(true)
		}
		b.WriteString(center(style, prefix+formatSession(sess)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderAnswers(sess.SessionID, center))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderAnswers(id string, center func(lipgloss.Style, string) string) string {
	answers, ok := s.answers[id]
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	switch {
	case !ok:
		return center(dim, "    Loading answers...") + "\n"
	case len(answers) == 0:
		return center(dim, "    No answers this game") + "\n"
	}

	var b strings.Builder
	for _, a := range answers {
		mark, st := "✗", lipgloss.NewStyle().Foreground(theme.Error)
		if a.Correct {
			mark, st = "✓", lipgloss.NewStyle().Foreground(theme.Success)
		}
		line := fmt.Sprintf("    %s %s  %q", mark, a.ChallengeTitle, a.LearnerAnswer)
		if a.PointsEarned > 0 {
			line += fmt.Sprintf("  +%d", a.PointsEarned)
		}
		b.WriteString(center(st, line))
		b.WriteString("\n")
	}
	return b.String()
}

// formatSession renders one history row.
func formatSession(sess store.SessionSummary) string {
	dur := sess.LastActivity.Sub(sess.StartedAt)
	mins := int(dur.Minutes())
	secs := int(dur.Seconds()) % 60

	status := "in progress"
	switch {
	case sess.Completed:
		status = "completed"
	case sess.Ended:
		status = fmt.Sprintf("left at %d/%d", sess.Reached+1, sess.ChallengeCount)
	}

	return fmt.Sprintf("%s  %d:%02d  %d pts  %d galaxies  LV %d  %s",
		sess.StartedAt.Local().Format("Jan 02, 2006 15:04"), mins, secs,
		sess.FinalScore, sess.Galaxies, sess.Level, status)
}
