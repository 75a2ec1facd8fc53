package store

import (
	"context"
	"time"
)

// Session event actions.
const (
	ActionStart    = "start"
	ActionAdvance  = "advance"
	ActionComplete = "complete"
	ActionEnd      = "end"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SessionEventData captures a session lifecycle transition together with the
// progress at that moment.
type SessionEventData struct {
	SessionID      string
	Action         string // start, advance, complete, end
	Catalog        string
	ChallengeIndex int
	ChallengeCount int
	TotalScore     int
	UnlockedCount  int
	Level          int
	Completed      bool
	DurationSecs   int
}

// AnswerEventData captures one submitted answer.
type AnswerEventData struct {
	SessionID      string
	ChallengeIndex int
	ChallengeTitle string
	LearnerAnswer  string
	Correct        bool
	PointsEarned   int
	TotalScore     int
	Level          int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// SessionSummary is one played session as shown in history.
type SessionSummary struct {
	SessionID      string
	Catalog        string
	StartedAt      time.Time
	LastActivity   time.Time
	ChallengeCount int
	Reached        int // challenge index reached
	FinalScore     int
	Galaxies       int
	Level          int
	Completed      bool
	Ended          bool
	Answers        int
	CorrectAnswers int
}

// AnswerRecord is a stored answer event.
type AnswerRecord struct {
	ID             int
	Sequence       int64
	Timestamp      time.Time
	SessionID      string
	ChallengeIndex int
	ChallengeTitle string
	LearnerAnswer  string
	Correct        bool
	PointsEarned   int
	TotalScore     int
	Level          int
}

// Stats aggregates all recorded play.
type Stats struct {
	Sessions          int
	CompletedSessions int
	BestScore         int
	BestLevel         int
	TotalPoints       int
	Answers           int
	CorrectAnswers    int
}

// Accuracy returns the share of correct answers, or 0 with no answers.
func (s Stats) Accuracy() float64 {
	if s.Answers == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.Answers)
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMUsage aggregates LLM calls for one purpose or model.
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendSessionEvent records a session lifecycle transition.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records a submitted answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QuerySessions returns session summaries, newest first.
	QuerySessions(ctx context.Context, opts QueryOpts) ([]SessionSummary, error)

	// SessionAnswers returns the answers of one session in order.
	SessionAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error)

	// Stats aggregates every recorded session and answer.
	Stats(ctx context.Context) (Stats, error)

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event by ID, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates LLM calls per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates LLM calls per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
