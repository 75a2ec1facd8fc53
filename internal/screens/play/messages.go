package play

import (
	"github.com/galacticode/galacticode/internal/progression"
	"github.com/galacticode/galacticode/internal/session"
)

// sessionStartedMsg is sent once the session has been created.
type sessionStartedMsg struct {
	Session *session.Session
	Err     error
}

// answeredMsg carries the verdict for a submitted answer.
type answeredMsg struct {
	Result progression.AnswerResult
	Err    error
}

// advancedMsg carries the outcome of moving to the next challenge.
type advancedMsg struct {
	Result progression.AdvanceResult
	Err    error
}

// sessionEndedMsg is sent after the session has been ended and recorded, or
// with Err when ending it failed.
type sessionEndedMsg struct {
	Err error
}
