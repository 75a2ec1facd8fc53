// Package play is the screen where a player works through the catalog.
package play

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/galacticode/galacticode/internal/challenge"
	"github.com/galacticode/galacticode/internal/progression"
	"github.com/galacticode/galacticode/internal/router"
	"github.com/galacticode/galacticode/internal/screen"
	"github.com/galacticode/galacticode/internal/screens/summary"
	"github.com/galacticode/galacticode/internal/session"
	"github.com/galacticode/galacticode/internal/ui/components"
	"github.com/galacticode/galacticode/internal/ui/layout"
)

// msgWrong is shown under the input after a wrong answer.
const msgWrong = "Oops! Try again."

func correctMessage(points int) string {
	return fmt.Sprintf("You earned %d points and unlocked a new galaxy!", points)
}

type feedbackKind int

const (
	feedbackNone feedbackKind = iota
	feedbackCorrect
	feedbackWrong
)

// PlayScreen drives one session: answer, retry, continue or skip.
type PlayScreen struct {
	manager *session.Manager
	sess    *session.Session
	now     func() time.Time

	current  challenge.Challenge
	index    int
	state    progression.State
	input    components.TextInput
	feedback string
	kind     feedbackKind
	quitting bool
	pending  bool
	errMsg   string

	attempts int
	correct  int
	skipped  int
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.StatusProvider = (*PlayScreen)(nil)

// New creates a PlayScreen that starts a session on Init.
func New(manager *session.Manager) *PlayScreen {
	return &PlayScreen{
		manager: manager,
		now:     time.Now,
		input:   components.NewTextInput("Type your answer...", 64),
		state:   progression.State{CurrentLevel: 1},
	}
}

func (s *PlayScreen) Init() tea.Cmd {
	return tea.Batch(s.startSession(), s.input.Init())
}

func (s *PlayScreen) Title() string {
	if s.sess == nil {
		return "Launching"
	}
	return fmt.Sprintf("Challenge %d of %d", s.index+1, s.manager.Catalog().Len())
}

func (s *PlayScreen) Status() layout.Status {
	return layout.Status{
		Points:   s.state.TotalScore,
		Galaxies: s.state.UnlockedCount,
		Level:    s.state.CurrentLevel,
	}
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.quitting:
		return []layout.KeyHint{
			{Key: "Y", Description: "End game"},
			{Key: "N", Description: "Keep playing"},
		}
	case s.kind == feedbackCorrect:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next challenge"},
			{Key: "Esc", Description: "Quit"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Tab", Description: "Skip"},
			{Key: "Esc", Description: "Quit"},
		}
	}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionStartedMsg:
		return s.handleStarted(msg)

	case answeredMsg:
		return s.handleAnswered(msg)

	case advancedMsg:
		return s.handleAdvanced(msg)

	case sessionEndedMsg:
		if msg.Err != nil {
			s.errMsg = "end session: " + msg.Err.Error()
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.sess != nil && !s.quitting {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PlayScreen) startSession() tea.Cmd {
	return func() tea.Msg {
		sess, err := s.manager.Start(context.Background())
		return sessionStartedMsg{Session: sess, Err: err}
	}
}

func (s *PlayScreen) handleStarted(msg sessionStartedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.sess = msg.Session
	snap := s.sess.Snapshot()
	s.state = snap.State
	s.index = snap.State.CurrentIndex
	if snap.Challenge != nil {
		s.current = *snap.Challenge
	}
	return s, nil
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" {
		if msg.String() == "esc" || msg.String() == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}
	if s.sess == nil {
		return s, nil
	}

	if s.quitting {
		switch msg.String() {
		case "y", "Y":
			return s, s.endSession()
		case "n", "N", "esc":
			s.quitting = false
		}
		return s, nil
	}

	switch msg.String() {
	case "esc":
		s.quitting = true
		return s, nil
	case "enter", "tab":
		if s.pending {
			return s, nil
		}
	}

	switch msg.String() {
	case "enter":
		if s.kind == feedbackCorrect {
			return s, s.advance()
		}
		return s, s.submit(s.input.Value())
	case "tab":
		if s.kind != feedbackCorrect {
			s.skipped++
		}
		return s, s.advance()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit and advance mark the screen pending until their result arrives, so
// a repeated key cannot send a second request.
func (s *PlayScreen) submit(raw string) tea.Cmd {
	s.pending = true
	sess := s.sess
	return func() tea.Msg {
		res, err := sess.Submit(context.Background(), raw)
		return answeredMsg{Result: res, Err: err}
	}
}

func (s *PlayScreen) advance() tea.Cmd {
	s.pending = true
	sess := s.sess
	return func() tea.Msg {
		res, err := sess.Advance(context.Background())
		return advancedMsg{Result: res, Err: err}
	}
}

func (s *PlayScreen) endSession() tea.Cmd {
	id := s.sess.ID
	return func() tea.Msg {
		return sessionEndedMsg{Err: s.manager.End(context.Background(), id)}
	}
}

func (s *PlayScreen) handleAnswered(msg answeredMsg) (screen.Screen, tea.Cmd) {
	s.pending = false
	if msg.Err != nil {
		if errors.Is(msg.Err, progression.ErrSessionComplete) {
			return s, s.advance()
		}
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	s.attempts++
	s.input.Submit(msg.Result.Correct)
	if !msg.Result.Correct {
		s.kind = feedbackWrong
		s.feedback = msgWrong
		s.input.Model.SetValue("")
		return s, nil
	}

	s.correct++
	s.kind = feedbackCorrect
	s.feedback = correctMessage(msg.Result.PointsEarned)
	s.state = s.sess.Snapshot().State
	s.input.Lock()
	return s, nil
}

func (s *PlayScreen) handleAdvanced(msg advancedMsg) (screen.Screen, tea.Cmd) {
	s.pending = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	res := msg.Result
	if res.Completed {
		return s, s.finish()
	}

	s.index = res.Index
	s.current = *res.Challenge
	s.state = s.sess.Snapshot().State
	s.kind = feedbackNone
	s.feedback = ""
	return s, s.input.Reset()
}

// finish ends the session and swaps this screen for the summary.
func (s *PlayScreen) finish() tea.Cmd {
	snap := s.sess.Snapshot()
	cat := s.manager.Catalog()
	res := summary.Result{
		Catalog:        cat.Name,
		FinalScore:     snap.State.TotalScore,
		MaxScore:       cat.TotalPoints(),
		Galaxies:       snap.State.UnlockedCount,
		ChallengeCount: snap.ChallengeCount,
		Level:          snap.State.CurrentLevel,
		MaxLevel:       cat.MaxLevel(),
		Attempts:       s.attempts,
		Correct:        s.correct,
		Skipped:        s.skipped,
		Duration:       s.now().Sub(s.sess.StartedAt),
	}
	id := s.sess.ID
	return func() tea.Msg {
		if err := s.manager.End(context.Background(), id); err != nil {
			return sessionEndedMsg{Err: err}
		}
		return router.ReplaceScreenMsg{Screen: summary.New(res)}
	}
}
