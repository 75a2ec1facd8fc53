package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		if err := s.EventRepo().AppendSessionEvent(context.Background(), SessionEventData{SessionID: "s", Action: ActionStart}); err != nil {
			t.Fatalf("append #%d: %v", i+1, err)
		}
		s.Close()
	}
}

func TestSequenceIsGlobal(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		n, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		seqs = append(seqs, n)
	}
	for i := 1; i < len(seqs); i++ {
		if seqs[i] != seqs[i-1]+1 {
			t.Fatalf("sequence not contiguous: %v", seqs)
		}
	}
}

func TestSessionHistory(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	mustSession := func(d SessionEventData) {
		t.Helper()
		if err := repo.AppendSessionEvent(ctx, d); err != nil {
			t.Fatalf("append session event: %v", err)
		}
	}
	mustAnswer := func(d AnswerEventData) {
		t.Helper()
		if err := repo.AppendAnswerEvent(ctx, d); err != nil {
			t.Fatalf("append answer event: %v", err)
		}
	}

	// Session a: one correct answer, then ended early.
	mustSession(SessionEventData{SessionID: "a", Action: ActionStart, Catalog: "Galaxy One", ChallengeCount: 5, Level: 1})
	mustAnswer(AnswerEventData{SessionID: "a", ChallengeIndex: 0, LearnerAnswer: "11", Correct: false, Level: 1})
	mustAnswer(AnswerEventData{SessionID: "a", ChallengeIndex: 0, LearnerAnswer: "12", Correct: true, PointsEarned: 10, TotalScore: 10, Level: 1})
	mustSession(SessionEventData{SessionID: "a", Action: ActionEnd, ChallengeIndex: 0, TotalScore: 10, UnlockedCount: 1, Level: 1})

	// Session b: completed.
	mustSession(SessionEventData{SessionID: "b", Action: ActionStart, Catalog: "Galaxy One", ChallengeCount: 1, Level: 1})
	mustAnswer(AnswerEventData{SessionID: "b", ChallengeIndex: 0, LearnerAnswer: "12", Correct: true, PointsEarned: 60, TotalScore: 60, Level: 2})
	mustSession(SessionEventData{SessionID: "b", Action: ActionComplete, ChallengeIndex: 1, ChallengeCount: 1, TotalScore: 60, UnlockedCount: 1, Level: 2, Completed: true})

	sessions, err := repo.QuerySessions(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}

	b, a := sessions[0], sessions[1]
	if b.SessionID != "b" || a.SessionID != "a" {
		t.Fatalf("order = %s,%s, want newest first", sessions[0].SessionID, sessions[1].SessionID)
	}
	if !b.Completed || b.FinalScore != 60 || b.Level != 2 || b.Galaxies != 1 {
		t.Errorf("session b = %+v", b)
	}
	if a.Completed || !a.Ended || a.FinalScore != 10 || a.Answers != 2 || a.CorrectAnswers != 1 {
		t.Errorf("session a = %+v", a)
	}
	if a.Catalog != "Galaxy One" || a.ChallengeCount != 5 {
		t.Errorf("session a start data = %+v", a)
	}

	limited, err := repo.QuerySessions(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("query sessions: %v", err)
	}
	if len(limited) != 1 || limited[0].SessionID != "b" {
		t.Errorf("limited = %+v", limited)
	}

	answers, err := repo.SessionAnswers(ctx, "a")
	if err != nil {
		t.Fatalf("session answers: %v", err)
	}
	if len(answers) != 2 || answers[0].LearnerAnswer != "11" || !answers[1].Correct {
		t.Errorf("answers = %+v", answers)
	}
	if answers[0].Sequence >= answers[1].Sequence {
		t.Errorf("answers not in sequence order")
	}
	if answers[0].Timestamp.IsZero() {
		t.Errorf("timestamp not stored")
	}

	st, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := Stats{Sessions: 2, CompletedSessions: 1, BestScore: 60, BestLevel: 2, TotalPoints: 70, Answers: 3, CorrectAnswers: 2}
	if st != want {
		t.Errorf("stats = %+v, want %+v", st, want)
	}
	if got := st.Accuracy(); got < 0.66 || got > 0.67 {
		t.Errorf("accuracy = %v", got)
	}
}

func TestStatsEmpty(t *testing.T) {
	s := openTestStore(t)
	st, err := s.EventRepo().Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st != (Stats{}) {
		t.Errorf("stats = %+v, want zero", st)
	}
	if st.Accuracy() != 0 {
		t.Errorf("accuracy = %v, want 0", st.Accuracy())
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "m1", Purpose: "challenge-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "req", ResponseBody: "resp"},
		{Provider: "anthropic", Model: "m1", Purpose: "challenge-gen", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: false, ErrorMessage: "boom"},
		{Provider: "openai", Model: "m2", Purpose: "other", InputTokens: 1, OutputTokens: 1, LatencyMs: 10, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 || got[0].Model != "m2" || got[1].ErrorMessage != "boom" {
		t.Fatalf("events = %+v", got)
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: got[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 || after[0].ID != got[0].ID {
		t.Errorf("after = %+v", after)
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	first, err := repo.GetLLMEvent(ctx, all[len(all)-1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first == nil || first.RequestBody != "req" || first.ResponseBody != "resp" || !first.Success {
		t.Errorf("first = %+v", first)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event")
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("usage = %+v", byPurpose)
	}
	gen := byPurpose[0]
	if gen.Key != "challenge-gen" || gen.Calls != 2 || gen.InputTokens != 110 || gen.OutputTokens != 55 || gen.AvgLatencyMs != 150 {
		t.Errorf("challenge-gen usage = %+v", gen)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Key != "m2" {
		t.Errorf("usage by model = %+v", byModel)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "a", Action: ActionStart}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "a", Correct: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	st, err := repo.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Sessions != 0 || st.Answers != 0 {
		t.Errorf("stats after reset = %+v", st)
	}

	n, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("sequence after reset = %d, want 1", n)
	}

	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "b", Action: ActionStart}); err != nil {
		t.Fatalf("append after reset: %v", err)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "custom", "g.db")
		t.Setenv("GALACTICODE_DB", want)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
	})

	t.Run("xdg", func(t *testing.T) {
		t.Setenv("GALACTICODE_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatal(err)
		}
		want := filepath.Join(dir, "galacticode", "galacticode.db")
		if got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
	})
}
