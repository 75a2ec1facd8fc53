package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/galacticode/galacticode/internal/router"
	"github.com/galacticode/galacticode/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd { return nil }

func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }

func (s *stubScreen) View(int, int) string { return "home" }

func (s *stubScreen) Title() string { return "Home" }

func newWelcome() (*WelcomeScreen, *int) {
	calls := 0
	return New(func() screen.Screen {
		calls++
		return &stubScreen{}
	}), &calls
}

func sendTicks(w *WelcomeScreen, n int) {
	for i := 0; i < n; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

func TestRocketClimbs(t *testing.T) {
	w, _ := newWelcome()
	if got := w.altitude(); got != 0 {
		t.Fatalf("altitude before liftoff = %d, want 0", got)
	}

	sendTicks(w, int(liftoffAt/tickInterval)+3)
	if got := w.altitude(); got != 3 {
		t.Errorf("altitude = %d, want 3", got)
	}

	sendTicks(w, 50)
	if got := w.altitude(); got != launchHeight {
		t.Errorf("altitude = %d, want capped at %d", got, launchHeight)
	}
}

func TestBannerAppearsAfterLaunch(t *testing.T) {
	w, _ := newWelcome()
	if strings.Contains(w.View(80, 30), tagline) {
		t.Error("tagline shown before the banner phase")
	}

	sendTicks(w, int(bannerAt/tickInterval))
	view := w.View(80, 30)
	if !strings.Contains(view, tagline) {
		t.Error("tagline missing after the banner phase")
	}
	if !strings.Contains(view, "press any key") {
		t.Error("continue hint missing")
	}
}

func TestElapsedCapped(t *testing.T) {
	w, calls := newWelcome()
	sendTicks(w, 100)
	if w.elapsed != totalDur {
		t.Errorf("elapsed = %v, want %v", w.elapsed, totalDur)
	}
	if *calls != 0 {
		t.Error("next screen built without a key press")
	}
}

func TestKeyPressReplacesWithNext(t *testing.T) {
	w, calls := newWelcome()
	sendTicks(w, 2)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen == nil {
		t.Error("replacement screen is nil")
	}

	_, cmd = w.Update(tea.KeyPressMsg{Code: 'x'})
	if cmd != nil {
		t.Error("second key press should do nothing")
	}
	if *calls != 1 {
		t.Errorf("next called %d times, want 1", *calls)
	}
}

func TestTicksStopAfterTransition(t *testing.T) {
	w, _ := newWelcome()
	w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, cmd := w.Update(tickMsg(time.Now()))
	if cmd != nil {
		t.Error("ticking continued after the transition")
	}
}

func TestCompactBanner(t *testing.T) {
	if got := RenderBanner(40); !strings.Contains(got, bannerCompact) {
		t.Errorf("narrow banner = %q", got)
	}
}
