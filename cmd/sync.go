package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"rally-metrics/scraper/mlp"
	"rally-metrics/services"
	"rally-metrics/storage"
)

var (
	syncSnapshot string
	syncSkipDB   bool
	syncRawPath  string
	syncClean    string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Scrape the standings page and upsert it into the database",
	Long: `Render the standings page in headless Chrome, save the raw table,
normalize it into the clean CSV and upsert every player into player_statistic
in a single transaction.

With --html the table is read from a saved page instead of a live browser.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncSnapshot, "html", "", "read the standings table from a saved HTML page")
	syncCmd.Flags().BoolVar(&syncSkipDB, "skip-db", false, "stop after writing the clean CSV")
	syncCmd.Flags().StringVar(&syncRawPath, "raw", "", "raw CSV path (default RAW_CSV_PATH)")
	syncCmd.Flags().StringVar(&syncClean, "clean", "", "clean CSV path (default CLEAN_CSV_PATH)")
}

func runSync(cmd *cobra.Command, args []string) error {
	_, err := syncOnce(cmd.Context())
	return err
}

// syncOnce runs the full pipeline with the current flags and configuration.
func syncOnce(ctx context.Context) (*services.SyncResult, error) {
	logger.Info("=== MLP standings sync starting ===")

	var fetcher services.StandingsFetcher = mlp.New(cfg, logger)
	if syncSnapshot != "" {
		logger.Info("Reading standings from snapshot %s", syncSnapshot)
		fetcher = &mlp.SnapshotFetcher{Path: syncSnapshot, TableID: cfg.TableID}
	}

	opts := services.SyncOptions{
		Fetcher:   fetcher,
		Format:    numberFormat(),
		RawPath:   firstNonEmpty(syncRawPath, cfg.RawCSVPath),
		CleanPath: firstNonEmpty(syncClean, cfg.CleanCSVPath),
	}

	// The store is opened by the sync itself, after both CSV files are written.
	var store *storage.Store
	defer func() {
		if store != nil {
			store.Close()
		}
	}()
	if !syncSkipDB {
		opts.OpenStore = func(ctx context.Context) (services.StatisticUpserter, error) {
			s, err := openStore(ctx)
			if err != nil {
				logger.Error("Failed to connect to %s: %v", cfg.DBDriver, err)
				return nil, err
			}
			store = s
			return s, nil
		}
	}

	res, err := services.NewSyncService(opts, logger).Run(ctx)
	if errors.Is(err, mlp.ErrTableNotFound) {
		logger.Error("Error locating the standings table: %v", err)
		return nil, err
	}
	if err != nil {
		logger.Error("Sync failed: %v", err)
		return nil, err
	}

	logger.Info("=== Sync done: %d raw rows, %d players, %d rejected, %d persisted ===",
		res.RawRows, res.Players, len(res.Rejected), res.Persisted)
	return res, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
