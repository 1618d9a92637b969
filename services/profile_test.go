package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rally-metrics/models"
	"rally-metrics/storage"
)

type fakeGenerator struct {
	text string
	err  error

	gotStats string
	gotHint  string
}

func (g *fakeGenerator) GeneratePlayerSummary(ctx context.Context, name, team, recentStats, styleHint string) (string, error) {
	g.gotStats = recentStats
	g.gotHint = styleHint
	return g.text, g.err
}

func seededStore(t *testing.T) *storage.Store {
	t.Helper()
	store := openTestStore(t)
	_, err := store.UpsertAll(context.Background(), []models.PlayerStatistic{
		{Name: "Jim Smith", Rank: 1, Team: "SoCal Hard Eights", GamesWon: 20, GamesLost: 2, GamesWonPercent: 90.9, PtsWon: 220, PtsLost: 120, PtsWonPercent: 64.7},
	}, nil)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func TestRecentStats(t *testing.T) {
	p := &models.PlayerStatistic{GamesWon: 20, GamesLost: 2, PtsWon: 220, PtsLost: 120}
	want := "Games won: 20, Games lost: 2, Points won: 220, Points lost: 120"
	if got := RecentStats(p); got != want {
		t.Errorf("RecentStats = %q; want %q", got, want)
	}
}

func TestProfileWithoutGenerator(t *testing.T) {
	svc := NewProfileService(seededStore(t), nil, newTestLogger())

	p, err := svc.Profile(context.Background(), "JIM SMITH")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Name != "Jim Smith" || p.Generated {
		t.Errorf("profile = %+v", p)
	}
	if !strings.HasPrefix(p.Summary, "Jim Smith (SoCal Hard Eights) is ranked #1.") {
		t.Errorf("summary = %q", p.Summary)
	}
}

func TestProfileUsesGenerator(t *testing.T) {
	gen := &fakeGenerator{text: "A steady baseliner. You should draft him."}
	svc := NewProfileService(seededStore(t), gen, newTestLogger())

	p, err := svc.Profile(context.Background(), "Jim Smith")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if !p.Generated || p.Summary != gen.text {
		t.Errorf("profile = %+v", p)
	}
	if gen.gotHint != StyleHint || gen.gotStats != p.RecentStats {
		t.Errorf("generator got stats=%q hint=%q", gen.gotStats, gen.gotHint)
	}
}

func TestProfileGeneratorFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc := NewProfileService(seededStore(t), gen, newTestLogger())

	p, err := svc.Profile(context.Background(), "Jim Smith")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Generated || !strings.Contains(p.Summary, p.RecentStats) {
		t.Errorf("profile = %+v", p)
	}
}

func TestProfileUnknownPlayer(t *testing.T) {
	svc := NewProfileService(seededStore(t), nil, newTestLogger())
	if _, err := svc.Profile(context.Background(), "Nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
