package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"rally-metrics/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	// ErrNotFound is returned when no player matches the requested name.
	ErrNotFound = errors.New("storage: player not found")
	// ErrExists is returned by Add when the name is already stored.
	ErrExists = errors.New("storage: player already exists")
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS player_statistic (
		name              VARCHAR(255)     PRIMARY KEY,
		rank              INTEGER          NOT NULL CHECK (rank > 0),
		team              VARCHAR(255)     NOT NULL DEFAULT '',
		games_won         INTEGER          NOT NULL DEFAULT 0,
		games_lost        INTEGER          NOT NULL DEFAULT 0,
		games_won_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
		pts_won           INTEGER          NOT NULL DEFAULT 0,
		pts_lost          INTEGER          NOT NULL DEFAULT 0,
		pts_won_percent   DOUBLE PRECISION NOT NULL DEFAULT 0
	)`

const upsertSQL = `
	INSERT INTO player_statistic (
		name, rank, team,
		games_won, games_lost, games_won_percent,
		pts_won, pts_lost, pts_won_percent
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (name) DO UPDATE SET
		rank              = EXCLUDED.rank,
		team              = EXCLUDED.team,
		games_won         = EXCLUDED.games_won,
		games_lost        = EXCLUDED.games_lost,
		games_won_percent = EXCLUDED.games_won_percent,
		pts_won           = EXCLUDED.pts_won,
		pts_lost          = EXCLUDED.pts_lost,
		pts_won_percent   = EXCLUDED.pts_won_percent`

const insertSQL = `
	INSERT INTO player_statistic (
		name, rank, team,
		games_won, games_lost, games_won_percent,
		pts_won, pts_lost, pts_won_percent
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const updateSQL = `
	UPDATE player_statistic SET
		rank = ?, team = ?,
		games_won = ?, games_lost = ?, games_won_percent = ?,
		pts_won = ?, pts_lost = ?, pts_won_percent = ?
	WHERE name = ?`

const selectColumns = `
	SELECT name, rank, team,
		games_won, games_lost, games_won_percent,
		pts_won, pts_lost, pts_won_percent
	FROM player_statistic`

// Store persists player statistics to PostgreSQL or SQLite.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database for driver ("postgres" or "sqlite"), verifies the
// connection and creates the player_statistic table if it does not exist.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("sqlite: create dir: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", driver, err)
	}
	if driver == DriverSQLite {
		// Every pooled connection to ":memory:" would get its own database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", driver, err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ensure schema: %w", driver, err)
	}

	return &Store{db: db, driver: driver}, nil
}

// UpsertAll inserts or updates every statistic inside a single transaction.
// onRow, when set, is called before each row is written. Any statement error
// rolls the whole transaction back, leaving the table as it was.
func (s *Store) UpsertAll(ctx context.Context, stats []models.PlayerStatistic, onRow func(models.PlayerStatistic)) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin: %w", s.driver, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.rebind(upsertSQL))
	if err != nil {
		return 0, fmt.Errorf("%s: prepare upsert: %w", s.driver, err)
	}
	defer stmt.Close()

	count := 0
	for _, st := range stats {
		if onRow != nil {
			onRow(st)
		}
		if _, err := stmt.ExecContext(ctx, st.Args()...); err != nil {
			return 0, fmt.Errorf("%s: upsert %q: %w", s.driver, st.Name, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", s.driver, err)
	}
	return count, nil
}

// List returns all stored players ordered by rank.
func (s *Store) List(ctx context.Context) ([]*models.PlayerStatistic, error) {
	return s.query(ctx, selectColumns+` ORDER BY rank, name`)
}

// ListByTeam returns the players of team, matched case-insensitively.
func (s *Store) ListByTeam(ctx context.Context, team string) ([]*models.PlayerStatistic, error) {
	return s.query(ctx, selectColumns+` WHERE LOWER(team) = LOWER(?) ORDER BY rank, name`,
		strings.TrimSpace(team))
}

// Search returns players whose name or team contains text, case-insensitively.
func (s *Store) Search(ctx context.Context, text string) ([]*models.PlayerStatistic, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(text)) + "%"
	return s.query(ctx, selectColumns+` WHERE LOWER(name) LIKE ? OR LOWER(team) LIKE ? ORDER BY rank, name`,
		pattern, pattern)
}

// SearchByName returns players whose name contains text, case-insensitively.
func (s *Store) SearchByName(ctx context.Context, text string) ([]*models.PlayerStatistic, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(text)) + "%"
	return s.query(ctx, selectColumns+` WHERE LOWER(name) LIKE ? ORDER BY rank, name`, pattern)
}

// FindByName returns the first player whose name equals name ignoring case.
func (s *Store) FindByName(ctx context.Context, name string) (*models.PlayerStatistic, error) {
	players, err := s.query(ctx, selectColumns+` WHERE LOWER(name) = LOWER(?) ORDER BY rank, name`,
		strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return players[0], nil
}

// Add inserts a new player. It fails with ErrExists when the name is taken.
func (s *Store) Add(ctx context.Context, p models.PlayerStatistic) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", s.driver, err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM player_statistic WHERE name = ?`), p.Name).Scan(&exists)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrExists, p.Name)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: add %q: %w", s.driver, p.Name, err)
	}

	if _, err := tx.ExecContext(ctx, s.rebind(insertSQL), p.Args()...); err != nil {
		return fmt.Errorf("%s: add %q: %w", s.driver, p.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", s.driver, err)
	}
	return nil
}

// Update overwrites every column of the player with p.Name.
func (s *Store) Update(ctx context.Context, p models.PlayerStatistic) error {
	res, err := s.db.ExecContext(ctx, s.rebind(updateSQL),
		p.Rank, p.Team,
		p.GamesWon, p.GamesLost, p.GamesWonPercent,
		p.PtsWon, p.PtsLost, p.PtsWonPercent,
		p.Name,
	)
	if err != nil {
		return fmt.Errorf("%s: update %q: %w", s.driver, p.Name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: update %q: %w", s.driver, p.Name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, p.Name)
	}
	return nil
}

// Get returns the player with exactly this name.
func (s *Store) Get(ctx context.Context, name string) (*models.PlayerStatistic, error) {
	players, err := s.query(ctx, selectColumns+` WHERE name = ?`, name)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return players[0], nil
}

// Delete removes the player with exactly this name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM player_statistic WHERE name = ?`), name)
	if err != nil {
		return fmt.Errorf("%s: delete %q: %w", s.driver, name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: delete %q: %w", s.driver, name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]*models.PlayerStatistic, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query players: %w", s.driver, err)
	}
	defer rows.Close()

	var players []*models.PlayerStatistic
	for rows.Next() {
		p := &models.PlayerStatistic{}
		if err := rows.Scan(
			&p.Name, &p.Rank, &p.Team,
			&p.GamesWon, &p.GamesLost, &p.GamesWonPercent,
			&p.PtsWon, &p.PtsLost, &p.PtsWonPercent,
		); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", s.driver, err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// rebind rewrites "?" placeholders into Postgres "$n" form.
func (s *Store) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
