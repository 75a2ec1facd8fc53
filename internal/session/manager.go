// Package session keeps one progression engine per player. Sessions share
// nothing: each owns its engine behind its own mutex, so any number of
// players can be served concurrently from one process.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/galacticode/galacticode/internal/challenge"
	"github.com/galacticode/galacticode/internal/progression"
	"github.com/galacticode/galacticode/internal/store"
)

// ErrNotFound is returned for an unknown or already ended session ID.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long an idle session survives before the reaper ends it.
const DefaultTTL = 30 * time.Minute

// Recorder receives session and answer events. store.EventRepo satisfies it.
type Recorder interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data store.AnswerEventData) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL sets the idle timeout. Zero disables reaping.
func WithTTL(d time.Duration) Option {
	return func(m *Manager) { m.ttl = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger used for recording failures.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// Manager owns the live sessions for one catalog.
type Manager struct {
	catalog  challenge.Catalog
	recorder Recorder
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager validates catalog and returns an empty manager. recorder may be
// nil, in which case nothing is recorded.
func NewManager(catalog challenge.Catalog, recorder Recorder, opts ...Option) (*Manager, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		catalog:  catalog,
		recorder: recorder,
		ttl:      DefaultTTL,
		now:      time.Now,
		logger:   slog.Default(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Catalog returns the catalog every session is played over.
func (m *Manager) Catalog() challenge.Catalog {
	return m.catalog
}

// Start creates a session with a fresh engine.
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	engine, err := progression.New(m.catalog)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		StartedAt: now,
		m:         m,
		engine:    engine,
		lastSeen:  now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.recordSession(ctx, s, store.ActionStart)
	return s, nil
}

// Get returns the live session with id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// End discards the session and records its final progress. Holders of the
// *Session get ErrNotFound from it afterwards.
func (m *Manager) End(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok || !s.finish(ctx) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Reap ends every session idle for longer than the TTL as of now and returns
// how many were ended.
func (m *Manager) Reap(ctx context.Context, now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}

	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > m.ttl {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.finish(ctx)
	}
	if len(expired) > 0 {
		m.logger.Info("reaped idle sessions", "count", len(expired), "ttl", m.ttl)
	}
	return len(expired)
}

// RunReaper calls Reap every interval until ctx is done.
func (m *Manager) RunReaper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Reap(ctx, m.now())
		}
	}
}

// recordSession writes a lifecycle event. The caller holds s.mu or owns s
// exclusively. Recording failures are logged and never fail the game.
func (m *Manager) recordSession(ctx context.Context, s *Session, action string) {
	if m.recorder == nil {
		return
	}
	st := s.engine.State()
	err := m.recorder.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:      s.ID,
		Action:         action,
		Catalog:        m.catalog.Name,
		ChallengeIndex: st.CurrentIndex,
		ChallengeCount: s.engine.Len(),
		TotalScore:     st.TotalScore,
		UnlockedCount:  st.UnlockedCount,
		Level:          st.CurrentLevel,
		Completed:      s.engine.Completed(),
		DurationSecs:   int(m.now().Sub(s.StartedAt).Seconds()),
	})
	if err != nil {
		m.logger.Warn("record session event", "session", s.ID, "action", action, "error", err)
	}
}
