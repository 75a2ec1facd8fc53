package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/galacticode/galacticode/internal/challenge"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect, validate and export challenge catalogs",
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		reveal, _ := cmd.Flags().GetBool("answers")
		printCatalog(c, reveal)
		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a catalog file against the schema and catalog rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := challenge.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: ok (%d challenges, %d points, %d levels)\n",
			c.Name, c.Len(), c.TotalPoints(), c.MaxLevel())
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the active catalog as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		data, err := c.Marshal()
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		}
		if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}
		fmt.Printf("Wrote %s\n", out)
		return nil
	},
}

func printCatalog(c challenge.Catalog, reveal bool) {
	fmt.Printf("%s  (%d challenges, %d points)\n", c.Name, c.Len(), c.TotalPoints())
	fmt.Printf("Level thresholds: %v\n", c.Thresholds)
	fmt.Println(strings.Repeat("─", 60))
	for i, ch := range c.Challenges {
		fmt.Printf("%2d. %s  [%d pts]\n", i+1, ch.Title, ch.Points)
		fmt.Printf("    %s\n", ch.Description)
		if reveal {
			fmt.Printf("    answer: %s\n", ch.ExpectedAnswer)
		}
	}
}

func init() {
	catalogShowCmd.Flags().Bool("answers", false, "Also print expected answers")
	catalogExportCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")

	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogExportCmd)
}
