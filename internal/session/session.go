package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/galacticode/galacticode/internal/challenge"
	"github.com/galacticode/galacticode/internal/progression"
	"github.com/galacticode/galacticode/internal/store"
)

// Session is one player's run through the catalog.
type Session struct {
	ID        string
	StartedAt time.Time

	m *Manager

	mu       sync.Mutex
	engine   *progression.Engine
	lastSeen time.Time
	ended    bool
}

// Snapshot is a consistent view of a session for presentation.
type Snapshot struct {
	ID             string               `json:"id"`
	State          progression.State    `json:"state"`
	Phase          string               `json:"phase"`
	ChallengeCount int                  `json:"challenge_count"`
	Challenge      *challenge.Challenge `json:"challenge,omitempty"`
}

// Completed reports whether the snapshot was taken after the last challenge.
func (s Snapshot) Completed() bool {
	return s.Phase == progression.PhaseCompleted.String()
}

// Submit scores raw against the current challenge and records the attempt.
func (s *Session) Submit(ctx context.Context, raw string) (progression.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return progression.AnswerResult{}, s.errEnded()
	}
	s.touch()

	current, err := s.engine.CurrentChallenge()
	if err != nil {
		return progression.AnswerResult{}, err
	}
	index := s.engine.State().CurrentIndex

	res, err := s.engine.SubmitAnswer(raw)
	if err != nil {
		return progression.AnswerResult{}, err
	}

	if s.m.recorder != nil {
		st := s.engine.State()
		err := s.m.recorder.AppendAnswerEvent(ctx, store.AnswerEventData{
			SessionID:      s.ID,
			ChallengeIndex: index,
			ChallengeTitle: current.Title,
			LearnerAnswer:  raw,
			Correct:        res.Correct,
			PointsEarned:   res.PointsEarned,
			TotalScore:     st.TotalScore,
			Level:          st.CurrentLevel,
		})
		if err != nil {
			s.m.logger.Warn("record answer event", "session", s.ID, "error", err)
		}
	}
	return res, nil
}

// Advance moves to the next challenge. The transition into the completed
// phase is recorded once.
func (s *Session) Advance(ctx context.Context) (progression.AdvanceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return progression.AdvanceResult{}, s.errEnded()
	}
	s.touch()

	wasCompleted := s.engine.Completed()
	res := s.engine.AdvanceChallenge()

	switch {
	case res.Completed && !wasCompleted:
		s.m.recordSession(ctx, s, store.ActionComplete)
	case !res.Completed:
		s.m.recordSession(ctx, s, store.ActionAdvance)
	}
	return res, nil
}

// Current returns the challenge awaiting an answer.
func (s *Session) Current() (challenge.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return challenge.Challenge{}, s.errEnded()
	}
	s.touch()
	return s.engine.CurrentChallenge()
}

// Snapshot returns the session's progress and current challenge.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	snap := Snapshot{
		ID:             s.ID,
		State:          s.engine.State(),
		Phase:          s.engine.Phase().String(),
		ChallengeCount: s.engine.Len(),
	}
	if ch, err := s.engine.CurrentChallenge(); err == nil {
		snap.Challenge = &ch
	}
	return snap
}

// LastSeen returns the time of the last call on the session.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Ended reports whether the session has been ended or reaped.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// finish marks the session ended and records its final progress. It reports
// false if the session had already ended.
func (s *Session) finish(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return false
	}
	s.ended = true
	s.m.recordSession(ctx, s, store.ActionEnd)
	return true
}

func (s *Session) errEnded() error {
	return fmt.Errorf("%w: %s", ErrNotFound, s.ID)
}

// touch must be called with s.mu held.
func (s *Session) touch() {
	s.lastSeen = s.m.now()
}
