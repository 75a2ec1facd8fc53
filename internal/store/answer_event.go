package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	_, err := r.insert(ctx, AnswerEventsTable.Name,
		[]string{"session_id", "challenge_index", "challenge_title", "learner_answer",
			"correct", "points_earned", "total_score", "level"},
		[]any{data.SessionID, data.ChallengeIndex, data.ChallengeTitle, data.LearnerAnswer,
			data.Correct, data.PointsEarned, data.TotalScore, data.Level},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error) {
	query, args := builder().
		Select("id", "sequence", "timestamp", "session_id", "challenge_index", "challenge_title",
			"learner_answer", "correct", "points_earned", "total_score", "level").
		From(entsql.Table(AnswerEventsTable.Name)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var a AnswerRecord
		if err := rows.Scan(&a.ID, &a.Sequence, &a.Timestamp, &a.SessionID, &a.ChallengeIndex,
			&a.ChallengeTitle, &a.LearnerAnswer, &a.Correct, &a.PointsEarned, &a.TotalScore, &a.Level); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
