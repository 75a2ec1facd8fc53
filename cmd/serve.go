package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/galacticode/galacticode/internal/challenge"
	"github.com/galacticode/galacticode/internal/config"
	"github.com/galacticode/galacticode/internal/server"
	"github.com/galacticode/galacticode/internal/session"
	"github.com/galacticode/galacticode/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve sessions over HTTP and WebSocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		cfg, err := config.Load(files...)
		if err != nil {
			return err
		}
		if p, _ := cmd.Flags().GetString("port"); p != "" {
			cfg.Port = p
		}
		if p, _ := cmd.Flags().GetString("db"); p != "" {
			cfg.DBPath = p
		}
		if p, _ := cmd.Flags().GetString("catalog"); p != "" {
			cfg.CatalogPath = p
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
		slog.SetDefault(logger)

		catalog, err := challenge.LoadOrDefault(cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		var recorder session.Recorder
		if cfg.RecordEvents {
			if err := store.EnsureDir(cfg.DBPath); err != nil {
				return err
			}
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer st.Close()
			recorder = st.EventRepo()
		}

		sessions, err := session.NewManager(catalog, recorder,
			session.WithTTL(cfg.SessionTTL),
			session.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		logger.Info("catalog loaded",
			"name", catalog.Name,
			"challenges", catalog.Len(),
			"record_events", cfg.RecordEvents,
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(sessions,
			server.WithAllowedOrigins(cfg.AllowedOrigins),
			server.WithLogger(logger),
		)
		return srv.Run(ctx, cfg.Addr())
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Port to listen on (overrides GALACTICODE_PORT)")
	serveCmd.Flags().String("env-file", "", "Env file to load instead of .env")
}
