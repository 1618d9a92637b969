package cmd

import (
	"github.com/spf13/cobra"

	"rally-metrics/services"
)

var importCmd = &cobra.Command{
	Use:   "import [clean.csv]",
	Short: "Upsert an existing clean CSV into the database",
	Long: `Load a clean CSV (header Name,Rank,Team,<stats...>) and upsert every row
into player_statistic in one transaction. Defaults to CLEAN_CSV_PATH.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.CleanCSVPath
		if len(args) == 1 {
			path = args[0]
		}

		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		_, err = services.ImportFile(cmd.Context(), store, path, numberFormat(), logger)
		return err
	},
}
