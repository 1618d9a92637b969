package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rally-metrics/config"
	"rally-metrics/gemini"
	"rally-metrics/services"
	"rally-metrics/storage"
	"rally-metrics/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rally-metrics",
	Short: "MLP standings scraper",
	Long: `Scrape the Major League Pickleball player standings, normalize them into
a clean CSV and upsert them into the player_statistic table.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger = utils.NewLogger(cfg.LogLevel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(serveCmd)
}

func openStore(ctx context.Context) (*storage.Store, error) {
	store, err := storage.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return store, nil
}

// newProfileService uses Gemini for summaries when GEMINI_API_KEY is set.
func newProfileService(store *storage.Store) *services.ProfileService {
	var generator services.SummaryGenerator
	if cfg.GeminiAPIKey != "" {
		generator = gemini.New(cfg.GeminiAPIKey, cfg.GeminiURL, cfg.GeminiTimeout)
	}
	return services.NewProfileService(store, generator, logger)
}

func numberFormat() services.NumberFormat {
	return services.NumberFormat{
		StripPercentSign:   cfg.PercentStripSign,
		ThousandsSeparator: cfg.ThousandsSeparator,
	}
}
