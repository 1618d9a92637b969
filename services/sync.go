package services

import (
	"context"
	"fmt"
	"io"

	"rally-metrics/models"
	"rally-metrics/storage"
	"rally-metrics/utils"
)

// StandingsFetcher produces the raw standings table, from a browser or a snapshot.
type StandingsFetcher interface {
	FetchStandings(ctx context.Context) (*models.RawTable, error)
}

// StatisticUpserter receives the typed rows of a sync in one transaction.
type StatisticUpserter interface {
	UpsertAll(ctx context.Context, stats []models.PlayerStatistic, onRow func(models.PlayerStatistic)) (int, error)
}

// StoreOpener connects to the store a sync persists into.
type StoreOpener func(ctx context.Context) (StatisticUpserter, error)

// SyncResult summarizes one pipeline run.
type SyncResult struct {
	RawRows   int
	Players   int
	Rejected  []*ParseError
	Persisted int
}

// SyncService runs fetch → raw CSV → normalize → clean CSV → upsert.
type SyncService struct {
	fetcher    StandingsFetcher
	openStore  StoreOpener
	normalizer *Normalizer
	format     NumberFormat
	rawPath    string
	cleanPath  string
	logger     *utils.Logger
}

// SyncOptions configures a SyncService. OpenStore is called only once both CSV
// files are on disk. A nil OpenStore stops the run after the clean CSV.
type SyncOptions struct {
	Fetcher   StandingsFetcher
	OpenStore StoreOpener
	Format    NumberFormat
	RawPath   string
	CleanPath string
}

func NewSyncService(opts SyncOptions, logger *utils.Logger) *SyncService {
	return &SyncService{
		fetcher:    opts.Fetcher,
		openStore:  opts.OpenStore,
		normalizer: NewNormalizer(logger),
		format:     opts.Format,
		rawPath:    opts.RawPath,
		cleanPath:  opts.CleanPath,
		logger:     logger,
	}
}

// Run executes the pipeline once. The raw CSV is re-read from disk before
// normalizing, so the file on disk is what the later stages see.
func (s *SyncService) Run(ctx context.Context) (*SyncResult, error) {
	raw, err := s.fetcher.FetchStandings(ctx)
	if err != nil {
		return nil, err
	}

	if err := storage.WriteRaw(s.rawPath, raw); err != nil {
		return nil, err
	}
	s.logger.Info("[sync] Raw data saved to %s (%d rows)", s.rawPath, len(raw.Rows))

	result, standings, err := NormalizeFile(s.normalizer, s.rawPath, s.cleanPath)
	if err != nil {
		return nil, err
	}
	s.logger.Info("[sync] Cleaned CSV saved to %s (%d players)", s.cleanPath, len(standings.Players))

	if s.openStore == nil {
		return result, nil
	}

	store, err := s.openStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("persist: open store: %w", err)
	}

	n, err := Persist(ctx, store, standings, s.format, s.logger)
	if err != nil {
		return nil, err
	}
	result.Persisted = n
	return result, nil
}

// NormalizeFile reads the raw CSV at rawPath, normalizes it and writes the clean CSV to cleanPath.
func NormalizeFile(n *Normalizer, rawPath, cleanPath string) (*SyncResult, *models.Standings, error) {
	raw, err := storage.ReadTable(rawPath)
	if err != nil {
		return nil, nil, err
	}

	standings, rejected, err := n.Normalize(raw)
	if err != nil {
		return nil, nil, err
	}

	if err := storage.WriteStandings(cleanPath, standings); err != nil {
		return nil, nil, err
	}

	return &SyncResult{
		RawRows:  len(raw.Rows),
		Players:  len(standings.Players),
		Rejected: rejected,
	}, standings, nil
}

// ImportFile persists an existing clean CSV.
func ImportFile(ctx context.Context, store StatisticUpserter, cleanPath string, format NumberFormat, logger *utils.Logger) (int, error) {
	table, err := storage.ReadTable(cleanPath)
	if err != nil {
		return 0, err
	}
	return importTable(ctx, store, table, cleanPath, format, logger)
}

// ImportReader persists a clean CSV read from r. source only labels the log line.
func ImportReader(ctx context.Context, store StatisticUpserter, r io.Reader, source string, format NumberFormat, logger *utils.Logger) (int, error) {
	table, err := storage.ReadTableFrom(r)
	if err != nil {
		return 0, err
	}
	return importTable(ctx, store, table, source, format, logger)
}

func importTable(ctx context.Context, store StatisticUpserter, table *models.RawTable, source string, format NumberFormat, logger *utils.Logger) (int, error) {
	standings, err := StandingsFromClean(table)
	if err != nil {
		return 0, err
	}
	logger.Info("[import] Loaded %d players from %s", len(standings.Players), source)
	return Persist(ctx, store, standings, format, logger)
}

// Persist converts the standings to typed rows and upserts them in one transaction.
// Nothing is written when any value fails to parse or any statement fails.
func Persist(ctx context.Context, store StatisticUpserter, standings *models.Standings, format NumberFormat, logger *utils.Logger) (int, error) {
	stats, err := ToStatistics(standings, format)
	if err != nil {
		return 0, fmt.Errorf("persist: %w", err)
	}

	n, err := store.UpsertAll(ctx, stats, func(p models.PlayerStatistic) {
		logger.Info("Inserting row: %s | Team: %s | Rank: %d", p.Name, p.Team, p.Rank)
	})
	if err != nil {
		return 0, fmt.Errorf("persist: %w", err)
	}

	logger.Info("Total rows processed: %d", n)
	logger.Info("[persist] Data inserted/updated in player_statistic successfully")
	return n, nil
}
