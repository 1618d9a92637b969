package services

import (
	"fmt"
	"strconv"
	"strings"

	"rally-metrics/models"
)

// Statistic columns the player_statistic table stores, after CleanColumnName.
const (
	ColGamesWon        = "Games Won"
	ColGamesLost       = "Games Lost"
	ColGamesWonPercent = "Games Won Percent"
	ColPtsWon          = "Pts Won"
	ColPtsLost         = "Pts Lost"
	ColPtsWonPercent   = "Pts Won Percent"
)

var requiredColumns = []string{
	ColGamesWon, ColGamesLost, ColGamesWonPercent,
	ColPtsWon, ColPtsLost, ColPtsWonPercent,
}

// ParseError reports a cell that could not be converted to its column's type.
type ParseError struct {
	Row    int
	Name   string
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d (%s): column %q: cannot parse %q: %v", e.Row, e.Name, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NumberFormat controls how statistic text is turned into numbers.
type NumberFormat struct {
	// StripPercentSign removes a trailing "%" from percent columns.
	StripPercentSign bool
	// ThousandsSeparator is removed from every value before parsing; empty disables it.
	ThousandsSeparator string
}

func (f NumberFormat) clean(v string) string {
	v = strings.TrimSpace(v)
	if f.ThousandsSeparator != "" {
		v = strings.ReplaceAll(v, f.ThousandsSeparator, "")
	}
	return v
}

func (f NumberFormat) parseInt(v string) (int, error) {
	return strconv.Atoi(f.clean(v))
}

func (f NumberFormat) parsePercent(v string) (float64, error) {
	v = f.clean(v)
	if f.StripPercentSign {
		v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
	}
	return strconv.ParseFloat(v, 64)
}

// ToStatistics converts every player into a typed PlayerStatistic. The first
// unparseable value aborts the conversion with a *ParseError.
func ToStatistics(s *models.Standings, format NumberFormat) ([]models.PlayerStatistic, error) {
	have := make(map[string]bool, len(s.StatColumns))
	for _, c := range s.StatColumns {
		have[c] = true
	}
	for _, c := range requiredColumns {
		if !have[c] {
			return nil, fmt.Errorf("records: required column %q missing (have %v)", c, s.StatColumns)
		}
	}

	stats := make([]models.PlayerStatistic, 0, len(s.Players))
	for i, p := range s.Players {
		st := models.PlayerStatistic{Name: p.Name, Rank: p.Rank, Team: p.Team}

		ints := []struct {
			col string
			dst *int
		}{
			{ColGamesWon, &st.GamesWon},
			{ColGamesLost, &st.GamesLost},
			{ColPtsWon, &st.PtsWon},
			{ColPtsLost, &st.PtsLost},
		}
		for _, f := range ints {
			v, err := format.parseInt(p.Stats[f.col])
			if err != nil {
				return nil, &ParseError{Row: i, Name: p.Name, Column: f.col, Value: p.Stats[f.col], Err: err}
			}
			*f.dst = v
		}

		floats := []struct {
			col string
			dst *float64
		}{
			{ColGamesWonPercent, &st.GamesWonPercent},
			{ColPtsWonPercent, &st.PtsWonPercent},
		}
		for _, f := range floats {
			v, err := format.parsePercent(p.Stats[f.col])
			if err != nil {
				return nil, &ParseError{Row: i, Name: p.Name, Column: f.col, Value: p.Stats[f.col], Err: err}
			}
			*f.dst = v
		}

		stats = append(stats, st)
	}
	return stats, nil
}
