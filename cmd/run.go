package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/app"
	"github.com/darsihq/darsi/internal/auth"
	"github.com/darsihq/darsi/internal/config"
	"github.com/darsihq/darsi/internal/store"
	"github.com/darsihq/darsi/internal/tutor"
)

// runApp loads config, opens the store, restores the session and launches
// the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	ctx := cmd.Context()

	// An absent saved session just means the login screen runs first.
	session := &auth.Session{}
	if saved, err := st.Sessions().Load(ctx); err == nil && saved != nil {
		*session = *saved
	}

	client := api.New(cfg.APIBaseURL, session, logger, cfg.HTTPTimeout)

	// Tutoring is optional; without a provider the quiz simply shows the
	// backend explanation alone.
	var tut *tutor.Service
	if tcfg, ok := tutor.DiscoverConfig(); ok {
		provider, err := tutor.NewProvider(ctx, tcfg, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Tutor not available:", err)
		} else {
			tut = tutor.NewService(provider, cfg.Language)
		}
	}

	return app.Run(ctx, app.Deps{
		Config:  cfg,
		Client:  client,
		Session: session,
		Store:   st,
		Tutor:   tut,
		Logger:  logger,
	})
}

// newLogger writes structured debug logs to a file. The TUI owns the
// terminal, so nothing is ever logged to stderr while it runs.
func newLogger(path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
