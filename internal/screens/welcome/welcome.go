// Package welcome plays the launch intro shown before the home screen.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/galacticode/galacticode/internal/router"
	"github.com/galacticode/galacticode/internal/screen"
	"github.com/galacticode/galacticode/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	liftoffAt    = 800 * time.Millisecond
	bannerAt     = 2000 * time.Millisecond
	totalDur     = 3000 * time.Millisecond

	// launchHeight is how many rows the rocket climbs.
	launchHeight = 6
)

const rocketArt = `   /\
  /  \
 | {} |
 |    |
/|_||_|\`

var exhaustFrames = []string{"  '||'", "  ':;'", "  ';:'"}

var starFrames = []string{"·  ✦    ·   ★  ", " ✦   ·  ★    · "}

type tickMsg time.Time

// WelcomeScreen animates a rocket launch, then hands over to the screen
// produced by next on the first key press.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	ticks        int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed = min(w.elapsed+tickInterval, totalDur)
		w.ticks++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// altitude is how many rows the rocket has risen.
func (w *WelcomeScreen) altitude() int {
	if w.elapsed < liftoffAt {
		return 0
	}
	climb := int((w.elapsed - liftoffAt) / tickInterval)
	return min(climb, launchHeight)
}

func (w *WelcomeScreen) View(width, height int) string {
	stars := lipgloss.NewStyle().Foreground(theme.Accent).Render(starFrames[w.ticks%len(starFrames)])
	rocket := lipgloss.NewStyle().Foreground(theme.Secondary).Render(rocketArt)

	var b strings.Builder
	b.WriteString(stars + "\n")
	b.WriteString(strings.Repeat("\n", launchHeight-w.altitude()))
	b.WriteString(rocket + "\n")
	if w.elapsed >= liftoffAt {
		flame := lipgloss.NewStyle().Foreground(theme.Error).Render(exhaustFrames[w.ticks%len(exhaustFrames)])
		b.WriteString(flame + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("\n", w.altitude()))

	if w.elapsed >= bannerAt {
		b.WriteString("\n" + RenderBanner(width) + "\n\n")
		b.WriteString(theme.Title.Render(tagline) + "\n\n")
		b.WriteString(theme.Hint.Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
