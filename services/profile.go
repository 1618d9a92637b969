package services

import (
	"context"
	"fmt"

	"rally-metrics/models"
	"rally-metrics/utils"
)

// StyleHint is passed to the summary generator with every player.
const StyleHint = "Based on win/loss ratio and points"

// PlayerFinder looks a player up by name, ignoring case.
type PlayerFinder interface {
	FindByName(ctx context.Context, name string) (*models.PlayerStatistic, error)
}

// SummaryGenerator writes a prose profile from a player's record.
type SummaryGenerator interface {
	GeneratePlayerSummary(ctx context.Context, name, team, recentStats, styleHint string) (string, error)
}

// PlayerProfile is the per-player view served by the CLI and the API.
type PlayerProfile struct {
	Name        string `json:"name"`
	Team        string `json:"team"`
	Rank        int    `json:"rank"`
	RecentStats string `json:"recentStats"`
	Summary     string `json:"summary"`
	Generated   bool   `json:"generated"`
}

// ProfileService builds player profiles. Without a generator, or when the
// generator fails, the summary is the plain record.
type ProfileService struct {
	players   PlayerFinder
	generator SummaryGenerator
	logger    *utils.Logger
}

func NewProfileService(players PlayerFinder, generator SummaryGenerator, logger *utils.Logger) *ProfileService {
	return &ProfileService{players: players, generator: generator, logger: logger}
}

// RecentStats formats the win/loss record handed to the generator.
func RecentStats(p *models.PlayerStatistic) string {
	return fmt.Sprintf("Games won: %d, Games lost: %d, Points won: %d, Points lost: %d",
		p.GamesWon, p.GamesLost, p.PtsWon, p.PtsLost)
}

// Profile returns the profile of the named player. A missing player yields
// storage.ErrNotFound from the finder.
func (s *ProfileService) Profile(ctx context.Context, name string) (*PlayerProfile, error) {
	p, err := s.players.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	profile := &PlayerProfile{
		Name:        p.Name,
		Team:        p.Team,
		Rank:        p.Rank,
		RecentStats: RecentStats(p),
	}
	profile.Summary = plainSummary(p, profile.RecentStats)

	if s.generator == nil {
		return profile, nil
	}

	text, err := s.generator.GeneratePlayerSummary(ctx, p.Name, p.Team, profile.RecentStats, StyleHint)
	if err != nil {
		s.logger.Warn("[profile] Summary generation failed for %s: %v", p.Name, err)
		return profile, nil
	}
	profile.Summary = text
	profile.Generated = true
	return profile, nil
}

func plainSummary(p *models.PlayerStatistic, recent string) string {
	team := p.Team
	if team == "" {
		team = "no team"
	}
	return fmt.Sprintf("%s (%s) is ranked #%d. %s. Games won %.1f%%, points won %.1f%%.",
		p.Name, team, p.Rank, recent, p.GamesWonPercent, p.PtsWonPercent)
}
