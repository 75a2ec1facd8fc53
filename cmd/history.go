package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/galacticode/galacticode/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List past sessions, or the answers of one session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if len(args) == 1 {
			return printAnswers(cmd, s.EventRepo(), args[0])
		}

		limit, _ := cmd.Flags().GetInt("limit")
		sessions, err := s.EventRepo().QuerySessions(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-10s  %5s  %4s  %3s  %s\n",
			"Session", "Started", "Duration", "Pts", "Gal", "LV", "Status")
		fmt.Println(strings.Repeat("─", 100))
		for _, ss := range sessions {
			fmt.Printf("%-36s  %-16s  %-10s  %5d  %4d  %3d  %s\n",
				ss.SessionID,
				ss.StartedAt.Local().Format("2006-01-02 15:04"),
				ss.LastActivity.Sub(ss.StartedAt).Round(time.Second),
				ss.FinalScore,
				ss.Galaxies,
				ss.Level,
				sessionStatus(ss),
			)
		}
		return nil
	},
}

func sessionStatus(s store.SessionSummary) string {
	switch {
	case s.Completed:
		return "completed"
	case s.Ended:
		return fmt.Sprintf("left at %d/%d", s.Reached+1, s.ChallengeCount)
	default:
		return "in progress"
	}
}

func printAnswers(cmd *cobra.Command, repo store.EventRepo, sessionID string) error {
	answers, err := repo.SessionAnswers(cmd.Context(), sessionID)
	if err != nil {
		return fmt.Errorf("query answers: %w", err)
	}
	if len(answers) == 0 {
		fmt.Printf("No answers recorded for session %s.\n", sessionID)
		return nil
	}

	fmt.Printf("%-8s  %-32s  %-20s  %-3s  %s\n", "Time", "Challenge", "Answer", "OK", "Pts")
	fmt.Println(strings.Repeat("─", 76))
	for _, a := range answers {
		ok := "✓"
		if !a.Correct {
			ok = "✗"
		}
		fmt.Printf("%-8s  %-32s  %-20s  %-3s  %+d\n",
			a.Timestamp.Local().Format("15:04:05"),
			truncate(a.ChallengeTitle, 32),
			truncate(a.LearnerAnswer, 20),
			ok,
			a.PointsEarned,
		)
	}
	return nil
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}
