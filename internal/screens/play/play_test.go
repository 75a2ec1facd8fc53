package play

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/galacticode/galacticode/internal/challenge"
	"github.com/galacticode/galacticode/internal/router"
	"github.com/galacticode/galacticode/internal/screen"
	"github.com/galacticode/galacticode/internal/screens/summary"
	"github.com/galacticode/galacticode/internal/session"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// startedScreen returns a PlayScreen with its session already started.
func startedScreen(t *testing.T) (*PlayScreen, *session.Manager) {
	t.Helper()
	m, err := session.NewManager(challenge.Default(), nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	s := New(m)
	sess, err := m.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Update(sessionStartedMsg{Session: sess})
	return s, m
}

// run executes cmd and feeds its message back into the screen, once.
func run(t *testing.T, s *PlayScreen, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	s.Update(msg)
	return msg
}

func answer(t *testing.T, s *PlayScreen, text string) {
	t.Helper()
	s.input.Model.SetValue(text)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	run(t, s, cmd)
}

func TestPlayScreen_Loading(t *testing.T) {
	m, err := session.NewManager(challenge.Default(), nil)
	if err != nil {
		t.Fatal(err)
	}
	s := New(m)
	if s.Title() != "Launching" {
		t.Errorf("Title = %q", s.Title())
	}
	if !strings.Contains(s.View(80, 24), "Preparing for launch") {
		t.Error("expected loading view")
	}
}

func TestPlayScreen_ShowsFirstChallenge(t *testing.T) {
	s, _ := startedScreen(t)

	if s.Title() != "Challenge 1 of 5" {
		t.Errorf("Title = %q", s.Title())
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "Challenge 1: Basic Math") || !strings.Contains(view, "What is 5 + 7?") {
		t.Error("expected first challenge in view")
	}
	if st := s.Status(); st.Points != 0 || st.Galaxies != 0 || st.Level != 1 {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestPlayScreen_WrongAnswer(t *testing.T) {
	s, _ := startedScreen(t)

	answer(t, s, "11")

	if s.kind != feedbackWrong || s.feedback != "Oops! Try again." {
		t.Errorf("expected wrong feedback, got %q", s.feedback)
	}
	if s.input.Value() != "" {
		t.Error("expected input cleared for retry")
	}
	if s.input.Locked() {
		t.Error("input must stay enabled after a wrong answer")
	}
	if s.Status().Points != 0 {
		t.Error("wrong answer must not score")
	}
}

func TestPlayScreen_CorrectAnswerThenContinue(t *testing.T) {
	s, _ := startedScreen(t)

	answer(t, s, " 12 ")

	if s.kind != feedbackCorrect {
		t.Fatal("expected correct feedback")
	}
	if s.feedback != "You earned 10 points and unlocked a new galaxy!" {
		t.Errorf("feedback = %q", s.feedback)
	}
	if !s.input.Locked() {
		t.Error("input should be locked after a correct answer")
	}
	if st := s.Status(); st.Points != 10 || st.Galaxies != 1 {
		t.Errorf("unexpected status %+v", st)
	}

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	run(t, s, cmd)

	if s.index != 1 || s.current.Title != "Challenge 2: Logic Puzzle" {
		t.Errorf("expected second challenge, got %d %q", s.index, s.current.Title)
	}
	if s.kind != feedbackNone || s.input.Locked() {
		t.Error("expected fresh input on the next challenge")
	}
}

func TestPlayScreen_SkipAndComplete(t *testing.T) {
	s, m := startedScreen(t)

	answer(t, s, "12")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	run(t, s, cmd)

	var last tea.Msg
	for i := 0; i < 4; i++ {
		_, cmd := s.Update(specialKey(tea.KeyTab))
		msg := cmd()
		adv, ok := msg.(advancedMsg)
		if !ok {
			t.Fatalf("expected advancedMsg, got %T", msg)
		}
		_, cmd = s.Update(adv)
		if adv.Result.Completed {
			last = cmd()
		}
	}

	if s.skipped != 4 {
		t.Errorf("skipped = %d, want 4", s.skipped)
	}
	replace, ok := last.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", last)
	}
	sum, ok := replace.Screen.(*summary.SummaryScreen)
	if !ok {
		t.Fatalf("expected summary screen, got %T", replace.Screen)
	}
	if st := sum.Status(); st.Points != 10 || st.Galaxies != 1 {
		t.Errorf("unexpected summary status %+v", st)
	}
	if m.Len() != 0 {
		t.Error("expected the session to be ended on completion")
	}
}

func TestPlayScreen_QuitConfirm(t *testing.T) {
	s, m := startedScreen(t)

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	ps := scr.(*PlayScreen)
	if !ps.quitting {
		t.Fatal("expected quit confirmation")
	}

	ps.Update(keyPress('n'))
	if ps.quitting {
		t.Fatal("expected quit confirmation dismissed")
	}

	ps.Update(specialKey(tea.KeyEscape))
	_, cmd := ps.Update(keyPress('y'))
	msg := run(t, ps, cmd)
	if _, ok := msg.(sessionEndedMsg); !ok {
		t.Fatalf("expected sessionEndedMsg, got %T", msg)
	}
	if m.Len() != 0 {
		t.Error("expected the session to be ended")
	}
}

func TestPlayScreen_KeyHints(t *testing.T) {
	s, _ := startedScreen(t)
	if len(s.KeyHints()) != 3 {
		t.Error("expected submit, skip and quit hints")
	}
	answer(t, s, "12")
	if s.KeyHints()[0].Description != "Next challenge" {
		t.Error("expected continue hint after a correct answer")
	}
}

func TestPlayScreen_RepeatedKeysSendOneRequest(t *testing.T) {
	s, _ := startedScreen(t)
	answer(t, s, "12")

	_, first := s.Update(specialKey(tea.KeyEnter))
	if first == nil {
		t.Fatal("expected an advance command")
	}
	if _, cmd := s.Update(specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("second enter sent another request")
	}
	if _, cmd := s.Update(specialKey(tea.KeyTab)); cmd != nil {
		t.Error("tab sent another request while one was pending")
	}
	run(t, s, first)

	if s.index != 1 || s.current.Title != "Challenge 2: Logic Puzzle" {
		t.Errorf("expected second challenge, got %d %q", s.index, s.current.Title)
	}
	if snap := s.sess.Snapshot(); snap.State.CurrentIndex != 1 {
		t.Errorf("engine index = %d, want 1", snap.State.CurrentIndex)
	}
	if s.skipped != 0 {
		t.Errorf("skipped = %d, want 0", s.skipped)
	}

	s.input.Model.SetValue("2")
	_, submit := s.Update(specialKey(tea.KeyEnter))
	if _, cmd := s.Update(specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("second enter resubmitted while the verdict was pending")
	}
	run(t, s, submit)
	if s.kind != feedbackCorrect {
		t.Error("expected the pending answer to be judged")
	}
}

func TestPlayScreen_EndFailureIsShown(t *testing.T) {
	s, m := startedScreen(t)
	if err := m.End(context.Background(), s.sess.ID); err != nil {
		t.Fatal(err)
	}

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	msg := run(t, s, cmd)
	ended, ok := msg.(sessionEndedMsg)
	if !ok || ended.Err == nil {
		t.Fatalf("expected a failed sessionEndedMsg, got %#v", msg)
	}
	if !strings.Contains(s.View(100, 30), "end session") {
		t.Error("expected the failure in the view")
	}
}

func TestPlayScreen_AdvanceOnEndedSession(t *testing.T) {
	s, m := startedScreen(t)
	if err := m.End(context.Background(), s.sess.ID); err != nil {
		t.Fatal(err)
	}

	_, cmd := s.Update(specialKey(tea.KeyTab))
	run(t, s, cmd)
	if !strings.Contains(s.errMsg, session.ErrNotFound.Error()) {
		t.Errorf("errMsg = %q, want session not found", s.errMsg)
	}
	if s.pending {
		t.Error("pending flag left set after a failed advance")
	}
}
