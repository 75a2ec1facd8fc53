// Package app is the root Bubble Tea model of the terminal game.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/galacticode/galacticode/internal/router"
	"github.com/galacticode/galacticode/internal/screen"
	"github.com/galacticode/galacticode/internal/screens/home"
	"github.com/galacticode/galacticode/internal/screens/welcome"
	"github.com/galacticode/galacticode/internal/session"
	"github.com/galacticode/galacticode/internal/store"
	"github.com/galacticode/galacticode/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Sessions *session.Manager
	Events   store.EventRepo // nil disables history

	SkipIntro bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel starts on the launch intro, or directly on the home screen
// when opts.SkipIntro is set.
func newAppModel(opts Options) AppModel {
	newHome := func() screen.Screen { return home.New(opts.Sessions, opts.Events) }
	first := newHome()
	if !opts.SkipIntro {
		first = welcome.New(newHome)
	}
	return AppModel{router: router.New(first)}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render composes header, active screen and footer for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), status(active), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func status(s screen.Screen) *layout.Status {
	if sp, ok := s.(screen.StatusProvider); ok {
		st := sp.Status()
		return &st
	}
	return nil
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		return append(hp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
