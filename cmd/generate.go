package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/galacticode/galacticode/internal/challengegen"
	"github.com/galacticode/galacticode/internal/llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new challenge catalog with an LLM",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		name, _ := cmd.Flags().GetString("name")
		out, _ := cmd.Flags().GetString("out")
		avoid, _ := cmd.Flags().GetBool("avoid-existing")

		if out == "" {
			return errors.New("--out is required")
		}

		input := challengegen.GenerateInput{
			Topic:      topic,
			Count:      count,
			Difficulty: challengegen.Difficulty(difficulty),
			Name:       name,
		}
		if avoid {
			existing, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			for _, ch := range existing.Challenges {
				input.ExistingTitles = append(input.ExistingTitles, ch.Title)
			}
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		provider, err := llm.NewProviderFromEnv(ctx, s.EventRepo())
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		fmt.Printf("Generating %d %s challenges about %q...\n", count, difficulty, topic)
		pack, err := challengegen.New(provider, challengegen.DefaultConfig()).Generate(ctx, input)
		if err != nil {
			return err
		}

		data, err := pack.Catalog.Marshal()
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}

		fmt.Printf("Wrote %s: %q, %d challenges, %d points\n",
			out, pack.Catalog.Name, pack.Catalog.Len(), pack.Catalog.TotalPoints())
		fmt.Printf("Model %s, %d attempt(s), %d tokens\n", pack.Model, pack.Attempts, pack.Usage.TotalTokens)
		fmt.Printf("Play it with: galacticode --catalog %s\n", out)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("topic", "t", "", "What the challenges should cover (e.g. \"Go slices\")")
	generateCmd.Flags().IntP("count", "c", 5, "Number of challenges")
	generateCmd.Flags().StringP("difficulty", "d", string(challengegen.DifficultyEasy), "easy, medium or hard")
	generateCmd.Flags().String("name", "", "Catalog name (default: chosen by the model)")
	generateCmd.Flags().StringP("out", "o", "", "Output catalog file")
	generateCmd.Flags().Bool("avoid-existing", false, "Avoid titles from the active catalog")
	_ = generateCmd.MarkFlagRequired("topic")
}
