package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rally-metrics/services"
	"rally-metrics/storage"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [name]",
	Short: "Show a standings overview, or one player's profile",
	Long: `Without arguments, print an overview of every stored player.
With a player name (case-insensitive), print that player's record and profile.
The profile is generated by Gemini when GEMINI_API_KEY is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 1 {
			profile, err := newProfileService(store).Profile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("\n\033[1;35m  %s\033[0m  (%s, rank %d)\n", profile.Name, profile.Team, profile.Rank)
			fmt.Printf("  %s\n\n", profile.RecentStats)
			fmt.Printf("%s\n\n", profile.Summary)
			return nil
		}

		players, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		svc := services.NewInsightService(logger)
		svc.Print(svc.Generate(players))
		return nil
	},
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored players to an XLSX workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		players, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		out := firstNonEmpty(exportOut, cfg.XLSXOutputPath)
		if err := storage.ExportXLSX(players, out); err != nil {
			return err
		}
		logger.Info("Exported %d players to %s", len(players), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default XLSX_OUTPUT_PATH)")
}
