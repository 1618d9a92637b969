package cmd

import (
	"github.com/spf13/cobra"

	"rally-metrics/services"
)

var (
	normalizeRaw   string
	normalizeClean string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Rebuild the clean CSV from an existing raw CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawPath := firstNonEmpty(normalizeRaw, cfg.RawCSVPath)
		cleanPath := firstNonEmpty(normalizeClean, cfg.CleanCSVPath)

		res, _, err := services.NormalizeFile(services.NewNormalizer(logger), rawPath, cleanPath)
		if err != nil {
			return err
		}
		for _, pe := range res.Rejected {
			logger.Warn("Rejected: %v", pe)
		}
		logger.Info("Cleaned CSV saved to %s (%d of %d rows)", cleanPath, res.Players, res.RawRows)
		return nil
	},
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeRaw, "raw", "", "raw CSV path (default RAW_CSV_PATH)")
	normalizeCmd.Flags().StringVar(&normalizeClean, "clean", "", "clean CSV path (default CLEAN_CSV_PATH)")
}
