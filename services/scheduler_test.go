package services

import (
	"context"
	"testing"
	"time"
)

func TestSchedulerNext(t *testing.T) {
	s, err := NewScheduler(8, "America/Los_Angeles", newTestLogger())
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	la := s.loc

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before slot", time.Date(2025, 6, 1, 7, 30, 0, 0, la), time.Date(2025, 6, 1, 8, 0, 0, 0, la)},
		{"exactly at slot", time.Date(2025, 6, 1, 8, 0, 0, 0, la), time.Date(2025, 6, 2, 8, 0, 0, 0, la)},
		{"after slot", time.Date(2025, 6, 1, 21, 0, 0, 0, la), time.Date(2025, 6, 2, 8, 0, 0, 0, la)},
		{"end of month", time.Date(2025, 6, 30, 9, 0, 0, 0, la), time.Date(2025, 7, 1, 8, 0, 0, 0, la)},
		{"utc input", time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC), time.Date(2025, 6, 1, 8, 0, 0, 0, la)},
	}
	for _, tt := range tests {
		if got := s.Next(tt.now); !got.Equal(tt.want) {
			t.Errorf("%s: Next(%v) = %v; want %v", tt.name, tt.now, got, tt.want)
		}
	}
}

func TestSchedulerBadTimezone(t *testing.T) {
	if _, err := NewScheduler(8, "Mars/Olympus", newTestLogger()); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	s, err := NewScheduler(8, "UTC", newTestLogger())
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(context.Context) error {
			t.Error("job must not run before its slot")
			return nil
		})
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
