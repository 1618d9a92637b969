package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"rally-metrics/models"
	"rally-metrics/utils"
)

// MissingValue marks a statistic the league has not published yet.
const MissingValue = "-"

// ErrNoColumns is returned when the raw table has no composite player column.
var ErrNoColumns = errors.New("normalizer: raw table has no columns")

// ErrDuplicateColumn is returned when two page headers clean to the same column name.
var ErrDuplicateColumn = errors.New("normalizer: duplicate column")

// errRankNotPositive marks a rank that parsed but is zero or negative.
var errRankNotPositive = errors.New("rank must be positive")

// teamAliases maps team names that title-casing mangles back to their canonical spelling.
var teamAliases = map[string]string{
	"New Jersey 5S":     "New Jersey 5s",
	"Socal Hard Eights": "SoCal Hard Eights",
}

// Normalizer transforms the raw standings table into the canonical dataset.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize splits the composite player column, cleans names, teams and
// headers, drops rows carrying MissingValue and sorts by rank. Rows whose rank
// is not an integer are left out and returned as ParseErrors.
func (n *Normalizer) Normalize(raw *models.RawTable) (*models.Standings, []*ParseError, error) {
	if len(raw.Headers) == 0 {
		return nil, nil, ErrNoColumns
	}

	statColumns := make([]string, 0, len(raw.Headers)-1)
	seen := make(map[string]string, len(raw.Headers)-1)
	for _, h := range raw.Headers[1:] {
		col := CleanColumnName(h)
		if prev, ok := seen[col]; ok {
			return nil, nil, fmt.Errorf("%w: %q and %q both become %q", ErrDuplicateColumn, prev, h, col)
		}
		seen[col] = h
		statColumns = append(statColumns, col)
	}

	standings := &models.Standings{StatColumns: statColumns}
	var rejected []*ParseError
	missing := 0

	for i, row := range raw.Rows {
		if len(row) != len(raw.Headers) {
			n.logger.Debug("[normalizer] Row %d has %d cells, want %d, skipped", i, len(row), len(raw.Headers))
			continue
		}

		rank, name, team := splitPlayerCell(row[0])
		name = capitalizeInitials(titleCase(name))
		team = normalizeTeam(titleCase(team))

		stats := make(map[string]string, len(statColumns))
		hasMissing := false
		for j, col := range statColumns {
			v := row[j+1]
			if v == MissingValue {
				hasMissing = true
			}
			stats[col] = v
		}
		if hasMissing {
			missing++
			n.logger.Debug("[normalizer] Dropping %s: missing statistic", name)
			continue
		}

		rankValue, err := strconv.Atoi(rank)
		if err == nil && rankValue <= 0 {
			err = errRankNotPositive
		}
		if err != nil {
			pe := &ParseError{Row: i, Name: name, Column: "Rank", Value: rank, Err: err}
			n.logger.Warn("[normalizer] %v", pe)
			rejected = append(rejected, pe)
			continue
		}

		standings.Players = append(standings.Players, &models.Player{
			Name:  name,
			Rank:  rankValue,
			Team:  team,
			Stats: stats,
		})
	}

	sort.SliceStable(standings.Players, func(a, b int) bool {
		return standings.Players[a].Rank < standings.Players[b].Rank
	})

	n.logger.Info("[normalizer] Normalized %d → %d players (missing stats %d, bad rank %d)",
		len(raw.Rows), len(standings.Players), missing, len(rejected))
	return standings, rejected, nil
}

// StandingsFromClean rebuilds the dataset from a clean CSV whose header starts
// with Name, Rank, Team.
func StandingsFromClean(table *models.RawTable) (*models.Standings, error) {
	if len(table.Headers) < 3 ||
		table.Headers[0] != "Name" || table.Headers[1] != "Rank" || table.Headers[2] != "Team" {
		return nil, fmt.Errorf("normalizer: clean header must start with Name,Rank,Team, got %v", table.Headers)
	}

	standings := &models.Standings{StatColumns: append([]string(nil), table.Headers[3:]...)}
	for i, row := range table.Rows {
		if len(row) != len(table.Headers) {
			return nil, fmt.Errorf("normalizer: clean row %d has %d fields, want %d", i, len(row), len(table.Headers))
		}
		rank, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err == nil && rank <= 0 {
			err = errRankNotPositive
		}
		if err != nil {
			return nil, &ParseError{Row: i, Name: row[0], Column: "Rank", Value: row[1], Err: err}
		}
		stats := make(map[string]string, len(standings.StatColumns))
		for j, col := range standings.StatColumns {
			stats[col] = row[j+3]
		}
		standings.Players = append(standings.Players, &models.Player{
			Name:  row[0],
			Rank:  rank,
			Team:  row[2],
			Stats: stats,
		})
	}
	return standings, nil
}

// splitPlayerCell splits "rank\nname\nteam". Missing parts are empty, extra parts are ignored.
func splitPlayerCell(cell string) (rank, name, team string) {
	parts := strings.SplitN(cell, "\n", 4)
	get := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}
	return get(0), get(1), get(2)
}

// titleCase upper-cases every letter that follows a non-letter and lower-cases
// the rest, then trims: "new jersey 5s" → "New Jersey 5S".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return strings.TrimSpace(b.String())
}

func normalizeTeam(team string) string {
	if alias, ok := teamAliases[team]; ok {
		return alias
	}
	return team
}

// capitalizeInitials upper-cases a leading two-letter token: "Jb Smith" → "JB Smith".
func capitalizeInitials(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	if first := []rune(parts[0]); len(first) == 2 && unicode.IsLetter(first[0]) && unicode.IsLetter(first[1]) {
		parts[0] = strings.ToUpper(parts[0])
	}
	return strings.Join(parts, " ")
}

// CleanColumnName turns a page header into a column name: "%" becomes the word
// "Percent", non-ASCII characters are removed and the result is title-cased.
func CleanColumnName(col string) string {
	col = strings.ReplaceAll(col, "%", " Percent ")
	col = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, col)
	return titleCase(strings.Join(strings.Fields(col), " "))
}
