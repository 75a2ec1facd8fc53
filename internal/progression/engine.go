// Package progression tracks one player's advancement through a challenge
// catalog: it scores answers, counts unlocked galaxies and derives the
// player's level from cumulative score.
//
// An Engine is owned by exactly one session and is not safe for concurrent
// use. Callers that serve several players create one Engine per player.
package progression

import (
	"errors"
	"fmt"
	"strings"

	"github.com/galacticode/galacticode/internal/challenge"
)

// ErrSessionComplete is returned when an operation that needs an active
// challenge is called after the last challenge has been passed.
var ErrSessionComplete = errors.New("session complete: no challenge in progress")

// Phase is the engine's position in its two-state lifecycle.
type Phase int

const (
	PhaseInProgress Phase = iota // CurrentIndex < number of challenges
	PhaseCompleted               // CurrentIndex == number of challenges
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in_progress"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a snapshot of a player's progress.
type State struct {
	CurrentIndex  int `json:"current_index"`
	TotalScore    int `json:"total_score"`
	UnlockedCount int `json:"unlocked_count"`
	CurrentLevel  int `json:"current_level"`

	// CurrentSolved is set once the current challenge has been answered
	// correctly and cleared when the player advances.
	CurrentSolved bool `json:"current_solved"`
}

// AnswerResult reports the outcome of SubmitAnswer. Only Correct is set for
// a wrong answer.
type AnswerResult struct {
	Correct       bool `json:"correct"`
	PointsEarned  int  `json:"points_earned,omitempty"`
	TotalScore    int  `json:"total_score,omitempty"`
	UnlockedCount int  `json:"unlocked_count,omitempty"`
	CurrentLevel  int  `json:"current_level,omitempty"`
}

// AdvanceResult reports the outcome of AdvanceChallenge. Challenge is set
// while the session is in progress; FinalScore once it has completed.
type AdvanceResult struct {
	Index      int                  `json:"index"` // CurrentIndex after the move
	Completed  bool                 `json:"completed"`
	FinalScore int                  `json:"final_score,omitempty"`
	Challenge  *challenge.Challenge `json:"challenge,omitempty"`
}

// Engine holds the immutable catalog and the mutable progress of one player.
type Engine struct {
	challenges []challenge.Challenge
	thresholds []int
	state      State
}

// New starts a fresh session over the given catalog.
func New(catalog challenge.Catalog) (*Engine, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	// Copy so later edits to the caller's catalog cannot leak in.
	challenges := make([]challenge.Challenge, len(catalog.Challenges))
	copy(challenges, catalog.Challenges)
	thresholds := make([]int, len(catalog.Thresholds))
	copy(thresholds, catalog.Thresholds)

	return &Engine{
		challenges: challenges,
		thresholds: thresholds,
		state:      State{CurrentLevel: 1},
	}, nil
}

// State returns a copy of the current progress.
func (e *Engine) State() State {
	return e.state
}

// Len returns the number of challenges in the session.
func (e *Engine) Len() int {
	return len(e.challenges)
}

// Phase returns InProgress until the last challenge has been advanced past.
func (e *Engine) Phase() Phase {
	if e.state.CurrentIndex >= len(e.challenges) {
		return PhaseCompleted
	}
	return PhaseInProgress
}

// Completed reports whether the session has reached its terminal state.
func (e *Engine) Completed() bool {
	return e.Phase() == PhaseCompleted
}

// CurrentChallenge returns the challenge awaiting an answer.
func (e *Engine) CurrentChallenge() (challenge.Challenge, error) {
	if e.Completed() {
		return challenge.Challenge{}, ErrSessionComplete
	}
	return e.challenges[e.state.CurrentIndex], nil
}

// SubmitAnswer scores raw against the current challenge. The input is
// trimmed and lower-cased; the stored answer is only lower-cased. A correct
// answer adds the challenge's points, unlocks a galaxy and recomputes the
// level, but does not move to the next challenge. A wrong answer changes
// nothing and may be retried any number of times.
//
// A challenge scores at most once: submitting the right answer again before
// advancing reports Correct with zero PointsEarned and changes nothing.
func (e *Engine) SubmitAnswer(raw string) (AnswerResult, error) {
	current, err := e.CurrentChallenge()
	if err != nil {
		return AnswerResult{}, err
	}

	if NormalizeAnswer(raw) != strings.ToLower(current.ExpectedAnswer) {
		return AnswerResult{Correct: false}, nil
	}

	if e.state.CurrentSolved {
		return AnswerResult{
			Correct:       true,
			TotalScore:    e.state.TotalScore,
			UnlockedCount: e.state.UnlockedCount,
			CurrentLevel:  e.state.CurrentLevel,
		}, nil
	}

	e.state.TotalScore += current.Points
	e.state.UnlockedCount++
	e.state.CurrentSolved = true
	e.state.CurrentLevel = LevelFor(e.thresholds, e.state.TotalScore, e.state.CurrentLevel)

	return AnswerResult{
		Correct:       true,
		PointsEarned:  current.Points,
		TotalScore:    e.state.TotalScore,
		UnlockedCount: e.state.UnlockedCount,
		CurrentLevel:  e.state.CurrentLevel,
	}, nil
}

// AdvanceChallenge moves to the next challenge whether or not the current
// one was answered correctly. Once the last challenge is passed the session
// is complete; further calls return the completed result without moving.
func (e *Engine) AdvanceChallenge() AdvanceResult {
	if e.state.CurrentIndex < len(e.challenges) {
		e.state.CurrentIndex++
		e.state.CurrentSolved = false
	}

	if e.Completed() {
		return AdvanceResult{Index: e.state.CurrentIndex, Completed: true, FinalScore: e.state.TotalScore}
	}

	next := e.challenges[e.state.CurrentIndex]
	return AdvanceResult{Index: e.state.CurrentIndex, Completed: false, Challenge: &next}
}

// NormalizeAnswer applies the learner-side normalization: surrounding
// whitespace is removed and the text is lower-cased. Inner whitespace is
// significant.
func NormalizeAnswer(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// LevelFor returns the level for score given ascending thresholds. The scan
// runs from the highest threshold down and stops at the first one not above
// score, so a score equal to a threshold earns that threshold's level.
// If nothing qualifies, current is returned unchanged.
func LevelFor(thresholds []int, score, current int) int {
	for i := len(thresholds) - 1; i >= 0; i-- {
		if score >= thresholds[i] {
			return i + 1
		}
	}
	return current
}
