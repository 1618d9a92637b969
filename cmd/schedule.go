package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"rally-metrics/services"
)

var scheduleRunNow bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the sync every day at SYNC_HOUR in SYNC_TIMEZONE",
	Long: `Stay in the foreground and run the full sync once a day
(default 08:00 America/Los_Angeles). A failed run is logged and the next
day's run goes ahead. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sched, err := services.NewScheduler(cfg.SyncHour, cfg.SyncTimezone, logger)
		if err != nil {
			return err
		}

		job := func(ctx context.Context) error {
			_, err := syncOnce(ctx)
			return err
		}

		if scheduleRunNow {
			if err := job(cmd.Context()); err != nil {
				logger.Error("Initial sync failed: %v", err)
			}
		}
		return sched.Run(cmd.Context(), job)
	},
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "run-now", false, "run one sync immediately before waiting")
	scheduleCmd.Flags().BoolVar(&syncSkipDB, "skip-db", false, "stop each run after writing the clean CSV")
}
