package storage

import (
	"context"

	"rally-metrics/models"
)

// StatisticWriter is the interface any storage backend must satisfy to receive a sync.
type StatisticWriter interface {
	UpsertAll(ctx context.Context, stats []models.PlayerStatistic, onRow func(models.PlayerStatistic)) (int, error)
	Close() error
}

// StatisticReader serves the player queries.
type StatisticReader interface {
	List(ctx context.Context) ([]*models.PlayerStatistic, error)
	ListByTeam(ctx context.Context, team string) ([]*models.PlayerStatistic, error)
	Search(ctx context.Context, text string) ([]*models.PlayerStatistic, error)
	SearchByName(ctx context.Context, text string) ([]*models.PlayerStatistic, error)
	Get(ctx context.Context, name string) (*models.PlayerStatistic, error)
	FindByName(ctx context.Context, name string) (*models.PlayerStatistic, error)
}

// PlayerEditor covers the manual create, edit and delete of single players.
type PlayerEditor interface {
	Add(ctx context.Context, p models.PlayerStatistic) error
	Update(ctx context.Context, p models.PlayerStatistic) error
	Delete(ctx context.Context, name string) error
}

var (
	_ StatisticWriter = (*Store)(nil)
	_ StatisticReader = (*Store)(nil)
	_ PlayerEditor    = (*Store)(nil)
)
