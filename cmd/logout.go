package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darsihq/darsi/internal/config"
	"github.com/darsihq/darsi/internal/store"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() { _ = st.Close() }()

		if err := st.Sessions().Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Println("Signed out.")
		return nil
	},
}
