package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hl-fill-alerts/internal/app"
)

var (
	backfillAddress string
	backfillDryRun  bool
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Fetch and persist the current fill history for one address",
	RunE: func(cmd *cobra.Command, args []string) error {
		if backfillAddress == "" {
			return fmt.Errorf("--address must be provided")
		}

		opts := app.BackfillOptions{
			Address: backfillAddress,
			DryRun:  backfillDryRun,
		}

		return getApp().Backfill(cmd.Context(), opts)
	},
}

func init() {
	backfillCmd.Flags().StringVar(&backfillAddress, "address", "", "Account address to backfill")
	backfillCmd.Flags().BoolVar(&backfillDryRun, "dry-run", false, "Run without writing to storage")
}
