package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/galacticode/galacticode/internal/challenge"
	"github.com/galacticode/galacticode/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "galacticode",
	Short: "Space-themed coding challenges",
	Long: "GalactiCode: answer coding challenges to earn points, unlock galaxies\n" +
		"and level up. Runs as a terminal game or as an HTTP/WebSocket server.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides GALACTICODE_DB env var)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a challenge catalog JSON file (overrides GALACTICODE_CATALOG env var)")
	rootCmd.PersistentFlags().Bool("skip-intro", false, "Start on the home screen without the launch animation")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then GALACTICODE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveCatalogPath returns --catalog, then GALACTICODE_CATALOG. Empty means
// the built-in catalog.
func resolveCatalogPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		return p
	}
	return os.Getenv("GALACTICODE_CATALOG")
}

func loadCatalog(cmd *cobra.Command) (challenge.Catalog, error) {
	c, err := challenge.LoadOrDefault(resolveCatalogPath(cmd))
	if err != nil {
		return challenge.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	return c, nil
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
