package server

import (
	"github.com/galacticode/galacticode/internal/challenge"
	"github.com/galacticode/galacticode/internal/progression"
	"github.com/galacticode/galacticode/internal/session"
)

// challengeView is a challenge as shown to players. The expected answer is
// never sent.
type challengeView struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

type sessionView struct {
	ID             string            `json:"id"`
	Phase          string            `json:"phase"`
	Completed      bool              `json:"completed"`
	State          progression.State `json:"state"`
	ChallengeCount int               `json:"challenge_count"`
	Challenge      *challengeView    `json:"challenge,omitempty"`
	FinalScore     *int              `json:"final_score,omitempty"`
}

type advanceView struct {
	Completed  bool           `json:"completed"`
	FinalScore int            `json:"final_score"`
	Challenge  *challengeView `json:"challenge,omitempty"`
}

type catalogView struct {
	Name        string          `json:"name"`
	Challenges  []challengeView `json:"challenges"`
	Thresholds  []int           `json:"thresholds"`
	TotalPoints int             `json:"total_points"`
	MaxLevel    int             `json:"max_level"`
}

func viewChallenge(index int, ch *challenge.Challenge) *challengeView {
	if ch == nil {
		return nil
	}
	return &challengeView{
		Index:       index,
		Title:       ch.Title,
		Description: ch.Description,
		Points:      ch.Points,
	}
}

func viewSession(snap session.Snapshot) sessionView {
	v := sessionView{
		ID:             snap.ID,
		Phase:          snap.Phase,
		Completed:      snap.Completed(),
		State:          snap.State,
		ChallengeCount: snap.ChallengeCount,
		Challenge:      viewChallenge(snap.State.CurrentIndex, snap.Challenge),
	}
	if v.Completed {
		score := snap.State.TotalScore
		v.FinalScore = &score
	}
	return v
}

func viewAdvance(res progression.AdvanceResult) advanceView {
	return advanceView{
		Completed:  res.Completed,
		FinalScore: res.FinalScore,
		Challenge:  viewChallenge(res.Index, res.Challenge),
	}
}

func viewCatalog(c challenge.Catalog) catalogView {
	v := catalogView{
		Name:        c.Name,
		Challenges:  make([]challengeView, len(c.Challenges)),
		Thresholds:  c.Thresholds,
		TotalPoints: c.TotalPoints(),
		MaxLevel:    c.MaxLevel(),
	}
	for i := range c.Challenges {
		v.Challenges[i] = *viewChallenge(i, &c.Challenges[i])
	}
	return v
}
