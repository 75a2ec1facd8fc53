package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo on the SQL builder and the global sequence
// counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// insert assigns the next sequence and writes one event row.
func (r *eventRepo) insert(ctx context.Context, table string, columns []string, values []any) (int64, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, columns...)...).
		Values(append([]any{seqNum, time.Now().UTC()}, values...)...).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	_, err := r.insert(ctx, SessionEventsTable.Name,
		[]string{"session_id", "action", "catalog", "challenge_index", "challenge_count",
			"total_score", "unlocked_count", "level", "completed", "duration_secs"},
		[]any{data.SessionID, data.Action, data.Catalog, data.ChallengeIndex, data.ChallengeCount,
			data.TotalScore, data.UnlockedCount, data.Level, data.Completed, data.DurationSecs},
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessions(ctx context.Context, opts QueryOpts) ([]SessionSummary, error) {
	sel := builder().Select("session_id", "catalog", "challenge_count", "timestamp").
		From(entsql.Table(SessionEventsTable.Name))
	preds := append([]*entsql.Predicate{entsql.EQ("action", ActionStart)}, optsPredicates(opts)...)
	sel.Where(entsql.And(preds...)).OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	var out []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.SessionID, &s.Catalog, &s.ChallengeCount, &s.StartedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.Level = 1
		out = append(out, s)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	// The connection pool holds a single connection, so per-session lookups
	// run after the outer rows are closed.
	for i := range out {
		if err := r.fillSession(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// fillSession completes a summary from the session's latest lifecycle event
// and its answer events.
func (r *eventRepo) fillSession(ctx context.Context, s *SessionSummary) error {
	query, args := builder().
		Select("timestamp", "action", "challenge_index", "total_score", "unlocked_count", "level", "completed").
		From(entsql.Table(SessionEventsTable.Name)).
		Where(entsql.EQ("session_id", s.SessionID)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()
	var action string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.LastActivity, &action, &s.Reached, &s.FinalScore, &s.Galaxies, &s.Level, &s.Completed)
	if err != nil {
		return fmt.Errorf("latest session event: %w", err)
	}
	s.Ended = action == ActionEnd

	// Answers may have scored after the last lifecycle event.
	query, args = builder().
		Select(entsql.Count("*"), "COALESCE(SUM(correct), 0)", "COALESCE(MAX(total_score), 0)", "COALESCE(MAX(level), 1)").
		From(entsql.Table(AnswerEventsTable.Name)).
		Where(entsql.EQ("session_id", s.SessionID)).
		Query()
	var maxScore, maxLevel int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.Answers, &s.CorrectAnswers, &maxScore, &maxLevel); err != nil {
		return fmt.Errorf("session answers: %w", err)
	}
	s.FinalScore = max(s.FinalScore, maxScore)
	s.Level = max(s.Level, maxLevel)
	return nil
}

func (r *eventRepo) Stats(ctx context.Context) (Stats, error) {
	var st Stats

	query, args := builder().
		Select(
			"COALESCE(SUM(CASE WHEN action = 'start' THEN 1 ELSE 0 END), 0)",
			"COALESCE(SUM(CASE WHEN action = 'complete' THEN 1 ELSE 0 END), 0)",
			"COALESCE(MAX(total_score), 0)",
			"COALESCE(MAX(level), 0)",
		).
		From(entsql.Table(SessionEventsTable.Name)).
		Query()
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&st.Sessions, &st.CompletedSessions, &st.BestScore, &st.BestLevel); err != nil {
		return Stats{}, fmt.Errorf("session stats: %w", err)
	}

	query, args = builder().
		Select(
			entsql.Count("*"),
			"COALESCE(SUM(correct), 0)",
			"COALESCE(SUM(points_earned), 0)",
			"COALESCE(MAX(total_score), 0)",
			"COALESCE(MAX(level), 0)",
		).
		From(entsql.Table(AnswerEventsTable.Name)).
		Query()
	var bestScore, bestLevel int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&st.Answers, &st.CorrectAnswers, &st.TotalPoints, &bestScore, &bestLevel); err != nil {
		return Stats{}, fmt.Errorf("answer stats: %w", err)
	}
	st.BestScore = max(st.BestScore, bestScore)
	st.BestLevel = max(st.BestLevel, bestLevel)
	return st, nil
}

// optsPredicates translates the sequence and time bounds of opts.
func optsPredicates(opts QueryOpts) []*entsql.Predicate {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UTC()))
	}
	return preds
}
