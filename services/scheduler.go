package services

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"rally-metrics/utils"
)

// Scheduler runs a job once a day at a fixed hour in a fixed time zone.
type Scheduler struct {
	hour   int
	loc    *time.Location
	logger *utils.Logger
	now    func() time.Time
}

// NewScheduler creates a Scheduler firing daily at hour:00 in the named zone.
func NewScheduler(hour int, timezone string, logger *utils.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("scheduler: load timezone %q: %w", timezone, err)
	}
	return &Scheduler{hour: hour, loc: loc, logger: logger, now: time.Now}, nil
}

// Next returns the first hour:00 in the scheduler's zone strictly after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	local := t.In(s.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.hour, 0, 0, 0, s.loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, s.hour, 0, 0, 0, s.loc)
	}
	return next
}

// Run blocks until ctx is cancelled, calling job at every scheduled time. A
// failing job is logged and the next slot is awaited.
func (s *Scheduler) Run(ctx context.Context, job func(context.Context) error) error {
	for {
		next := s.Next(s.now())
		s.logger.Info("[scheduler] Next sync at %s", next.Format("2006-01-02 15:04:05 MST"))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		s.logger.Info("[scheduler] ===== Scheduled sync triggered at %s =====",
			s.now().In(s.loc).Format("2006-01-02 15:04:05 MST"))
		if err := job(ctx); err != nil {
			s.logger.Error("[scheduler] Sync failed: %v", err)
		} else {
			s.logger.Info("[scheduler] Sync ran successfully")
		}
	}
}
