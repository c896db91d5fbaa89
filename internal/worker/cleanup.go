package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type StalePurger interface {
	PurgeStale(ctx context.Context, before time.Time) (int64, error)
}

// Cleanup periodically drops sessions that were not touched for the
// retention period.
type Cleanup struct {
	store     StalePurger
	retention time.Duration
	log       zerolog.Logger
	now       func() time.Time
	cron      *cron.Cron
}

func NewCleanup(store StalePurger, retention time.Duration, log zerolog.Logger) *Cleanup {
	return &Cleanup{
		store:     store,
		retention: retention,
		log:       log,
		now:       time.Now,
		cron:      cron.New(),
	}
}

// Start schedules the job. schedule takes standard cron syntax or
// descriptors such as @hourly.
func (w *Cleanup) Start(ctx context.Context, schedule string) error {
	_, err := w.cron.AddFunc(schedule, func() {
		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Error().Err(err).Msg("session cleanup failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule cleanup %q: %w", schedule, err)
	}
	w.cron.Start()
	w.log.Info().Str("schedule", schedule).Dur("retention", w.retention).Msg("session cleanup scheduled")
	return nil
}

func (w *Cleanup) Stop() {
	<-w.cron.Stop().Done()
}

func (w *Cleanup) RunOnce(ctx context.Context) (int64, error) {
	before := w.now().Add(-w.retention)
	purged, err := w.store.PurgeStale(ctx, before)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		w.log.Info().Int64("purged", purged).Time("before", before).Msg("stale sessions purged")
	}
	return purged, nil
}
