// Package home is the main menu of the TUI.
package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/galacticode/galacticode/internal/router"
	"github.com/galacticode/galacticode/internal/screen"
	"github.com/galacticode/galacticode/internal/screens/history"
	"github.com/galacticode/galacticode/internal/screens/play"
	"github.com/galacticode/galacticode/internal/session"
	"github.com/galacticode/galacticode/internal/store"
	"github.com/galacticode/galacticode/internal/ui/components"
	"github.com/galacticode/galacticode/internal/ui/layout"
)

// Menu labels, in display order.
const (
	labelStart   = "START GAME"
	labelHistory = "HISTORY"
	labelExit    = "EXIT GAME"
)

type statsLoadedMsg struct {
	Stats store.Stats
	Err   error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	manager *session.Manager
	events  store.EventRepo
	menu    components.Menu
	stats   *store.Stats
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen. events may be nil, which disables history
// and the best-score line.
func New(manager *session.Manager, events store.EventRepo) *HomeScreen {
	h := &HomeScreen{manager: manager, events: events}

	items := []components.MenuItem{
		{Label: labelStart, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: play.New(manager)}
			}
		}},
		{Label: labelHistory, Disabled: events == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(events)}
			}
		}},
		{Label: labelExit, Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// Resume reloads stats after a game or the history screen.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	if h.events == nil {
		return nil
	}
	events := h.events
	return func() tea.Msg {
		st, err := events.Stats(context.Background())
		return statsLoadedMsg{Stats: st, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		if msg.Err == nil {
			h.stats = &msg.Stats
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompact(width, height+8)
	cw := contentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderCatalogLine(h.manager.Catalog(), cw),
	}
	if h.stats != nil {
		sections = append(sections, renderStatsBar(*h.stats, cw))
	}
	sections = append(sections, renderMenu(h.menu, cw))

	return renderCabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
