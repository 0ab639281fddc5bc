package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darsihq/darsi/internal/config"
	"github.com/darsihq/darsi/internal/store"
)

var activityCmd = &cobra.Command{
	Use:     "activity",
	Aliases: []string{"history"},
	Short:   "Print the local activity journal",
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

		entries, err := st.Activity().Recent(cmd.Context(), 50)
		if err != nil {
			return fmt.Errorf("read journal: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No activity yet.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %-10s  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Kind, e.Detail)
		}
		return nil
	},
}
