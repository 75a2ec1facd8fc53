package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime play statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		st, err := s.EventRepo().Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		if st.Sessions == 0 {
			fmt.Println("No missions flown yet. Run `galacticode` to launch one.")
			return nil
		}

		fmt.Println("Mission Log")
		fmt.Println(strings.Repeat("─", 36))
		fmt.Printf("%-22s %d\n", "Sessions", st.Sessions)
		fmt.Printf("%-22s %d\n", "Completed", st.CompletedSessions)
		fmt.Printf("%-22s %d\n", "Best score", st.BestScore)
		fmt.Printf("%-22s %d\n", "Best level", st.BestLevel)
		fmt.Printf("%-22s %d\n", "Points earned", st.TotalPoints)
		fmt.Printf("%-22s %d (%d correct)\n", "Answers", st.Answers, st.CorrectAnswers)
		fmt.Printf("%-22s %.0f%%\n", "Accuracy", st.Accuracy()*100)
		return nil
	},
}
