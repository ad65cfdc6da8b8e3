package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jrusco/local-pdf/pkg/core"
)

// DefaultSweepSchedule runs the stale-entry sweep hourly.
const DefaultSweepSchedule = "@hourly"

// Janitor periodically re-runs stale eviction so that descriptor version
// bumps made while the process is running are reflected in the store without
// waiting for the next startup.
type Janitor struct {
	store    Store
	expected func() map[core.ModuleID]string
	schedule cron.Schedule
	logger   *slog.Logger
}

// NewJanitor creates a janitor. expected is queried on every sweep so the
// digest set tracks live descriptor state. spec uses the standard cron
// format, including @hourly-style descriptors.
func NewJanitor(store Store, expected func() map[core.ModuleID]string, spec string) (*Janitor, error) {
	if spec == "" {
		spec = DefaultSweepSchedule
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &Janitor{
		store:    store,
		expected: expected,
		schedule: sched,
		logger:   slog.Default(),
	}, nil
}

// Run blocks, sweeping on schedule until the context is cancelled.
func (j *Janitor) Run(ctx context.Context) error {
	for {
		next := j.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	n, err := j.store.EvictStale(ctx, j.expected())
	if err != nil {
		// A failed sweep degrades to treat-as-not-fetched on the next
		// request; it must never take the caller down.
		j.logger.Warn("cache sweep failed", "error", err)
		return
	}
	if n > 0 {
		j.logger.Info("evicted stale cache entries", "count", n)
	}
}
