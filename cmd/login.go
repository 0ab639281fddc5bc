package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darsihq/darsi/internal/config"
	"github.com/darsihq/darsi/internal/store"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with a different account",
	Long:  "Clears the saved session and opens the app at the sign-in screen.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		if err := st.Sessions().Clear(cmd.Context()); err != nil {
			_ = st.Close()
			return fmt.Errorf("clear session: %w", err)
		}
		_ = st.Close()

		return runApp(cmd)
	},
}
