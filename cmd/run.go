package cmd

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/galacticode/galacticode/internal/app"
	"github.com/galacticode/galacticode/internal/session"
)

// runApp opens the store, builds the session manager, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	catalog, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	events := st.EventRepo()
	// The terminal belongs to the TUI; a single local session is never reaped.
	sessions, err := session.NewManager(catalog, events,
		session.WithTTL(0),
		session.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		return err
	}

	skipIntro, _ := cmd.Flags().GetBool("skip-intro")
	return app.Run(app.Options{Sessions: sessions, Events: events, SkipIntro: skipIntro})
}
