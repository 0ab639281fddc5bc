package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/darsihq/darsi/internal/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all local data (session and activity journal)",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("this deletes the local database; rerun with --yes to confirm")
		}

		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}
		if err := os.Remove(cfg.DBPath); err != nil {
			if os.IsNotExist(err) {
				fmt.Println("Nothing to reset.")
				return nil
			}
			return fmt.Errorf("remove database: %w", err)
		}
		fmt.Println("Local data removed.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
