package services

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"rally-metrics/models"
	"rally-metrics/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(players []*models.PlayerStatistic) *models.StandingsReport {
	report := &models.StandingsReport{
		PlayersByTeam: make(map[string]int),
	}

	if len(players) == 0 {
		return report
	}

	report.TotalPlayers = len(players)

	var total float64
	for _, p := range players {
		total += p.GamesWonPercent
		if p.Team != "" {
			report.PlayersByTeam[p.Team]++
		}
		if report.PointsLeader == nil || p.PtsWon > report.PointsLeader.PtsWon {
			report.PointsLeader = p
		}
	}
	report.TotalTeams = len(report.PlayersByTeam)
	report.AverageGamesWonPercent = round2(total / float64(len(players)))

	// Top 5 by games-won percent, ties broken by rank
	ranked := append([]*models.PlayerStatistic(nil), players...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].GamesWonPercent != ranked[j].GamesWonPercent {
			return ranked[i].GamesWonPercent > ranked[j].GamesWonPercent
		}
		return ranked[i].Rank < ranked[j].Rank
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	report.TopByGamesWonPercent = ranked

	return report
}

func (s *InsightService) Print(r *models.StandingsReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  MLP PREMIER STANDINGS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Players stored          : \033[1m%d\033[0m\n", r.TotalPlayers)
	fmt.Printf("  Teams                   : \033[1m%d\033[0m\n", r.TotalTeams)
	fmt.Printf("  Average games won %%     : \033[1m%.2f\033[0m\n", r.AverageGamesWonPercent)
	fmt.Println()

	if r.PointsLeader != nil {
		fmt.Printf("\033[1;33m  Points Leader\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s (%s)\n", truncate(r.PointsLeader.Name, 30), r.PointsLeader.Team)
		fmt.Printf("  Points won : \033[1;32m%d\033[0m\n", r.PointsLeader.PtsWon)
		fmt.Println()
	}

	fmt.Printf("\033[1;33m  Top 5 by Games Won %%\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopByGamesWonPercent) == 0 {
		fmt.Printf("  No players stored\n")
	} else {
		for i, p := range r.TopByGamesWonPercent {
			fmt.Printf("  \033[1m%d.\033[0m %-40s \033[1;32m%.1f%%\033[0m\n",
				i+1, truncate(p.Name, 38), p.GamesWonPercent)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Players by Team\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.PlayersByTeam) == 0 {
		fmt.Printf("  No team data\n")
	} else {
		type teamCount struct {
			team  string
			count int
		}
		var teams []teamCount
		for team, cnt := range r.PlayersByTeam {
			teams = append(teams, teamCount{team, cnt})
		}
		sort.Slice(teams, func(i, j int) bool {
			if teams[i].count != teams[j].count {
				return teams[i].count > teams[j].count
			}
			return teams[i].team < teams[j].team
		})
		for _, tc := range teams {
			bar := strings.Repeat("█", tc.count)
			fmt.Printf("  %-30s %s (%d)\n", truncate(tc.team, 28), bar, tc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to max runes, ending in "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
