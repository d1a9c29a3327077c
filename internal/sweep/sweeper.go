// Package sweep runs the daily retention pass over inspection slots.
package sweep

import (
	"context"
	"time"

	"github.com/bonselink/inspections/internal/domain"
	"github.com/bonselink/inspections/pkg/events"
	"github.com/bonselink/inspections/pkg/logger"
)

// SlotExpirer is the single store operation the sweep needs.
type SlotExpirer interface {
	ExpireDay(ctx context.Context, date time.Time, protected domain.TimeOfDay) (int64, error)
}

// Sweeper deletes yesterday's non-protected buckets once a day at a fixed
// local hour. It only ever targets the date exactly one day before the run:
// if the process was down for a day, older buckets stay put. That gap is
// intentional and documented; there is no catch-up pass.
type Sweeper struct {
	Slots  SlotExpirer
	Events events.Publisher
	Hour   int

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func New(slots SlotExpirer, bus events.Publisher, hour int) *Sweeper {
	return &Sweeper{Slots: slots, Events: bus, Hour: hour, Now: time.Now}
}

// Run blocks until ctx is canceled, sweeping at the configured hour each day.
func (s *Sweeper) Run(ctx context.Context) {
	for {
		now := s.Now()
		timer := time.NewTimer(s.nextRun(now).Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("sweeper stopping")
			return
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep relative to the current time. Idempotent:
// re-running against already-deleted buckets is a no-op.
func (s *Sweeper) RunOnce(ctx context.Context) {
	now := s.Now()
	y, m, d := now.Date()
	yesterday := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)

	deleted, err := s.Slots.ExpireDay(ctx, yesterday, domain.ProtectedTimeOfDay)
	if err != nil {
		logger.Error("expiry sweep failed", "date", yesterday.Format(domain.DateLayout), "error", err)
		return
	}

	logger.Info("expiry sweep completed",
		"date", yesterday.Format(domain.DateLayout),
		"deleted", deleted,
	)

	if s.Events != nil && deleted > 0 {
		err := s.Events.Publish(ctx, events.SlotsExpired, events.SlotsExpiredEvent{
			Date:    yesterday.Format(domain.DateLayout),
			Deleted: deleted,
			SweptAt: now,
		})
		if err != nil {
			logger.Warn("event publish failed", "subject", events.SlotsExpired, "error", err)
		}
	}
}

func (s *Sweeper) nextRun(now time.Time) time.Time {
	y, m, d := now.Date()
	next := time.Date(y, m, d, s.Hour, 0, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
