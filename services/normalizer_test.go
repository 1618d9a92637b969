package services

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"

	"rally-metrics/models"
	"rally-metrics/storage"
	"rally-metrics/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

var sampleHeaders = []string{"Player", "Games Won", "Games Lost", "Games Won%", "Pts Won", "Pts Lost", "Pts Won%"}

func sampleRaw() *models.RawTable {
	return &models.RawTable{
		Headers: sampleHeaders,
		Rows: [][]string{
			{"3\nab Lee\nTeam X", "10", "5", "66.7", "100", "50", "66.7"},
			{"1\njim smith\nsocal hard eights", "20", "2", "90.9", "220", "120", "64.7"},
			{"4\nno stats\nnew jersey 5s", "-", "-", "-", "-", "-", "-"},
			{"2\nann park\nnew jersey 5s", "15", "4", "78.9", "180", "130", "58.1"},
		},
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"new jersey 5s", "New Jersey 5S"},
		{"SOCAL HARD EIGHTS", "Socal Hard Eights"},
		{"o'neil", "O'Neil"},
		{"  team x ", "Team X"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestTeamAliases(t *testing.T) {
	tests := []struct {
		raw, want string
	}{
		{"new jersey 5s", "New Jersey 5s"},
		{"SoCal Hard Eights", "SoCal Hard Eights"},
		{"Team X", "Team X"},
		{"dallas flash", "Dallas Flash"},
	}
	for _, tt := range tests {
		if got := normalizeTeam(titleCase(tt.raw)); got != tt.want {
			t.Errorf("team %q = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCapitalizeInitials(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Jb Smith", "JB Smith"},
		{"Jim Smith", "Jim Smith"},
		{"J. Smith", "J. Smith"},
		{"A1 Smith", "A1 Smith"},
		{"Ab", "AB"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := capitalizeInitials(tt.in); got != tt.want {
			t.Errorf("capitalizeInitials(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
	if got := capitalizeInitials(titleCase("jb smith")); got != "JB Smith" {
		t.Errorf("jb smith = %q; want JB Smith", got)
	}
}

func TestCleanColumnName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Games Won%", "Games Won Percent"},
		{"Pts Won %", "Pts Won Percent"},
		{"games lost", "Games Lost"},
		{"Pts Won ▲", "Pts Won"},
		{" DUPR ", "Dupr"},
	}
	for _, tt := range tests {
		if got := CleanColumnName(tt.in); got != tt.want {
			t.Errorf("CleanColumnName(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitPlayerCell(t *testing.T) {
	rank, name, team := splitPlayerCell("7\nJane Doe")
	if rank != "7" || name != "Jane Doe" || team != "" {
		t.Errorf("short cell: got %q %q %q", rank, name, team)
	}
	rank, name, team = splitPlayerCell(" 8 \n Jo \n Team \n extra")
	if rank != "8" || name != "Jo" || team != "Team" {
		t.Errorf("long cell: got %q %q %q", rank, name, team)
	}
}

func TestNormalizeEndToEndRow(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := &models.RawTable{
		Headers: sampleHeaders,
		Rows:    [][]string{{"3\nab Lee\nTeam X", "10", "5", "66.7", "100", "50", "66.7"}},
	}

	s, rejected, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejects: %v", rejected)
	}

	wantHeader := []string{"Name", "Rank", "Team", "Games Won", "Games Lost", "Games Won Percent", "Pts Won", "Pts Lost", "Pts Won Percent"}
	if !reflect.DeepEqual(s.Header(), wantHeader) {
		t.Errorf("header = %v; want %v", s.Header(), wantHeader)
	}
	if len(s.Players) != 1 {
		t.Fatalf("expected 1 player, got %d", len(s.Players))
	}
	p := s.Players[0]
	if p.Name != "AB Lee" || p.Rank != 3 || p.Team != "Team X" {
		t.Errorf("player = %+v", p)
	}
	if p.Stats["Games Won Percent"] != "66.7" {
		t.Errorf("Games Won Percent = %q; want 66.7", p.Stats["Games Won Percent"])
	}

	stats, err := ToStatistics(s, NumberFormat{})
	if err != nil {
		t.Fatalf("ToStatistics: %v", err)
	}
	want := []any{"AB Lee", 3, "Team X", 10, 5, 66.7, 100, 50, 66.7}
	if got := stats[0].Args(); !reflect.DeepEqual(got, want) {
		t.Errorf("upsert args = %v; want %v", got, want)
	}
}

func TestNormalizeFiltersMissingAndSorts(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	s, _, err := n.Normalize(sampleRaw())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if len(s.Players) != 3 {
		t.Fatalf("expected 3 players after dropping missing stats, got %d", len(s.Players))
	}
	for i, p := range s.Players {
		if p.Rank != i+1 {
			t.Errorf("player %d rank = %d; want %d", i, p.Rank, i+1)
		}
		for col, v := range p.Stats {
			if v == MissingValue {
				t.Errorf("%s: column %s holds the missing marker", p.Name, col)
			}
		}
	}
	if s.Players[0].Team != "SoCal Hard Eights" {
		t.Errorf("team alias not applied: %q", s.Players[0].Team)
	}
	if s.Players[1].Team != "New Jersey 5s" {
		t.Errorf("team alias not applied: %q", s.Players[1].Team)
	}
}

func TestNormalizeKeepsDuplicateRanks(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := &models.RawTable{
		Headers: []string{"Player", "Games Won"},
		Rows: [][]string{
			{"2\nb\nT", "1"},
			{"1\na\nT", "1"},
			{"2\nc\nT", "1"},
		},
	}
	s, _, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	var got []string
	for _, p := range s.Players {
		got = append(got, strconv.Itoa(p.Rank)+p.Name)
	}
	want := []string{"1A", "2B", "2C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v; want %v", got, want)
	}
}

func TestNormalizeRejectsBadRank(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := &models.RawTable{
		Headers: []string{"Player", "Games Won"},
		Rows: [][]string{
			{"T1\nTied Player\nTeam", "3"},
			{"1\nGood Player\nTeam", "4"},
		},
	}
	s, rejected, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(s.Players) != 1 || s.Players[0].Name != "Good Player" {
		t.Errorf("players = %+v", s.Players)
	}
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejected row, got %d", len(rejected))
	}
	if rejected[0].Column != "Rank" || rejected[0].Value != "T1" {
		t.Errorf("rejected = %+v", rejected[0])
	}
	var numErr *strconv.NumError
	if !errors.As(rejected[0], &numErr) {
		t.Errorf("expected wrapped *strconv.NumError, got %T", rejected[0].Err)
	}
}

func TestNormalizeRejectsNonPositiveRank(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := &models.RawTable{
		Headers: []string{"Player", "Games Won"},
		Rows: [][]string{
			{"0\nzero rank\nTeam X", "3"},
			{"-2\nnegative rank\nTeam X", "3"},
			{"1\njim smith\nTeam X", "4"},
		},
	}
	s, rejected, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(s.Players) != 1 || s.Players[0].Name != "Jim Smith" {
		t.Errorf("players = %+v", s.Players)
	}
	if len(rejected) != 2 {
		t.Fatalf("expected 2 rejected rows, got %d", len(rejected))
	}
	for _, pe := range rejected {
		if pe.Column != "Rank" || !errors.Is(pe, errRankNotPositive) {
			t.Errorf("rejected = %+v", pe)
		}
	}
}

func TestNormalizeRejectsDuplicateColumns(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := &models.RawTable{
		Headers: []string{"Player", "Pts Won%", "Pts Won %"},
		Rows:    [][]string{{"1\njim smith\nTeam X", "60", "61"}},
	}
	if _, _, err := n.Normalize(raw); !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("expected ErrDuplicateColumn, got %v", err)
	}
}

func TestNormalizeEmptyTable(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	if _, _, err := n.Normalize(&models.RawTable{}); !errors.Is(err, ErrNoColumns) {
		t.Errorf("expected ErrNoColumns, got %v", err)
	}
}

func TestNormalizeFileIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	rawPath := filepath.Join(dir, "raw_stats.csv")
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	if err := storage.WriteRaw(rawPath, sampleRaw()); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}

	n := NewNormalizer(newTestLogger())
	if _, _, err := NormalizeFile(n, rawPath, first); err != nil {
		t.Fatalf("first NormalizeFile: %v", err)
	}
	if _, _, err := NormalizeFile(n, rawPath, second); err != nil {
		t.Fatalf("second NormalizeFile: %v", err)
	}

	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if !bytes.Equal(a, b) {
		t.Errorf("clean output differs between runs:\n%s\n---\n%s", a, b)
	}

	want := "Name,Rank,Team,Games Won,Games Lost,Games Won Percent,Pts Won,Pts Lost,Pts Won Percent\n" +
		"Jim Smith,1,SoCal Hard Eights,20,2,90.9,220,120,64.7\n" +
		"Ann Park,2,New Jersey 5s,15,4,78.9,180,130,58.1\n" +
		"AB Lee,3,Team X,10,5,66.7,100,50,66.7\n"
	if string(a) != want {
		t.Errorf("clean output:\n%s\nwant:\n%s", a, want)
	}
}

func TestStandingsFromClean(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Name", "Rank", "Team", "Games Won"},
		Rows:    [][]string{{"AB Lee", "3", "Team X", "10"}},
	}
	s, err := StandingsFromClean(table)
	if err != nil {
		t.Fatalf("StandingsFromClean: %v", err)
	}
	if s.Players[0].Rank != 3 || s.Players[0].Stats["Games Won"] != "10" {
		t.Errorf("player = %+v", s.Players[0])
	}

	table.Rows[0][1] = "0"
	if _, err := StandingsFromClean(table); !errors.Is(err, errRankNotPositive) {
		t.Errorf("expected non-positive rank error, got %v", err)
	}

	table.Headers = []string{"Player", "Games Won"}
	if _, err := StandingsFromClean(table); err == nil {
		t.Error("expected error for raw-shaped header")
	}
}
