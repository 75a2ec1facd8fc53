package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/galacticode/galacticode/internal/challenge"
	"github.com/galacticode/galacticode/internal/router"
	"github.com/galacticode/galacticode/internal/screens/history"
	"github.com/galacticode/galacticode/internal/screens/play"
	"github.com/galacticode/galacticode/internal/session"
	"github.com/galacticode/galacticode/internal/store"
)

type statsRepo struct {
	store.EventRepo
	stats store.Stats
	calls int
}

func (r *statsRepo) Stats(context.Context) (store.Stats, error) {
	r.calls++
	return r.stats, nil
}

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager(challenge.Default(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func press(h *HomeScreen, code rune) tea.Cmd {
	_, cmd := h.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func TestStartPushesPlay(t *testing.T) {
	h := New(newManager(t), nil)
	cmd := press(h, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*play.PlayScreen); !ok {
		t.Errorf("pushed %T, want *play.PlayScreen", push.Screen)
	}
}

func TestHistoryDisabledWithoutStore(t *testing.T) {
	h := New(newManager(t), nil)
	press(h, tea.KeyDown)
	if got := h.menu.Items[h.menu.Selected].Label; got != labelExit {
		t.Errorf("selected %q, want %q (history is disabled)", got, labelExit)
	}
	if h.Init() != nil {
		t.Error("no stats should load without a store")
	}
}

func TestHistoryPushesHistory(t *testing.T) {
	h := New(newManager(t), &statsRepo{})
	press(h, tea.KeyDown)
	cmd := press(h, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*history.HistoryScreen); !ok {
		t.Errorf("pushed %T, want *history.HistoryScreen", push.Screen)
	}
}

func TestStatsLoadedOnInitAndResume(t *testing.T) {
	repo := &statsRepo{stats: store.Stats{Sessions: 3, BestScore: 75, BestLevel: 2}}
	h := New(newManager(t), repo)

	h.Update(h.Init()())
	view := h.View(100, 30)
	if !strings.Contains(view, "BEST 75") {
		t.Error("best score missing from home view")
	}

	repo.stats.BestScore = 100
	h.Update(h.Resume()())
	if !strings.Contains(h.View(100, 30), "BEST 100") {
		t.Error("stats not refreshed on resume")
	}
	if repo.calls != 2 {
		t.Errorf("Stats called %d times, want 2", repo.calls)
	}
}

func TestViewShowsCatalog(t *testing.T) {
	view := New(newManager(t), nil).View(100, 30)
	for _, want := range []string{"Galaxy One", labelStart, labelHistory, labelExit} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
