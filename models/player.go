package models

import "strconv"

// RawTable holds the unprocessed standings table exactly as extracted from the page.
// Every row has len(Headers) cells. This is written to CSV before any cleaning.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Player is one normalized standings row.
type Player struct {
	Name  string
	Rank  int
	Team  string
	Stats map[string]string
}

// Standings is the normalized dataset, sorted by rank ascending.
type Standings struct {
	StatColumns []string
	Players     []*Player
}

// Header returns the canonical column layout: Name, Rank, Team, then the statistic columns.
func (s *Standings) Header() []string {
	header := make([]string, 0, 3+len(s.StatColumns))
	header = append(header, "Name", "Rank", "Team")
	return append(header, s.StatColumns...)
}

// Records renders each player as a row aligned to Header.
func (s *Standings) Records() [][]string {
	records := make([][]string, 0, len(s.Players))
	for _, p := range s.Players {
		row := make([]string, 0, 3+len(s.StatColumns))
		row = append(row, p.Name, strconv.Itoa(p.Rank), p.Team)
		for _, col := range s.StatColumns {
			row = append(row, p.Stats[col])
		}
		records = append(records, row)
	}
	return records
}

// PlayerStatistic is the typed record stored in the player_statistic table.
type PlayerStatistic struct {
	Name            string  `json:"name"`
	Rank            int     `json:"rank"`
	Team            string  `json:"team"`
	GamesWon        int     `json:"gamesWon"`
	GamesLost       int     `json:"gamesLost"`
	GamesWonPercent float64 `json:"gamesWonPercent"`
	PtsWon          int     `json:"ptsWon"`
	PtsLost         int     `json:"ptsLost"`
	PtsWonPercent   float64 `json:"ptsWonPercent"`
}

// Args returns the nine upsert parameters in column order.
func (p PlayerStatistic) Args() []any {
	return []any{
		p.Name, p.Rank, p.Team,
		p.GamesWon, p.GamesLost, p.GamesWonPercent,
		p.PtsWon, p.PtsLost, p.PtsWonPercent,
	}
}

// StandingsReport holds the computed summary over stored players.
type StandingsReport struct {
	TotalPlayers           int
	TotalTeams             int
	AverageGamesWonPercent float64
	PointsLeader           *PlayerStatistic
	TopByGamesWonPercent   []*PlayerStatistic
	PlayersByTeam          map[string]int
}
