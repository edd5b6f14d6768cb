// Package housekeeping runs the daily analytics retention sweep.
package housekeeping

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/GoWebAPP/GoWebAPP/internal/config"
)

// Store is the part of the analytics recorder the sweep needs.
type Store interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
	Optimize(ctx context.Context) error
}

// Result reports what one sweep did.
type Result struct {
	Cutoff time.Time
	Pruned int64
}

// Sweeper deletes events older than the retention window and compacts storage.
type Sweeper struct {
	store     Store
	retention time.Duration
	now       func() time.Time
}

// NewSweeper returns a sweeper keeping retentionDays of events.
func NewSweeper(store Store, retentionDays int) *Sweeper {
	return &Sweeper{
		store:     store,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

// Run performs one sweep. Compaction runs only after a successful prune.
func (s *Sweeper) Run(ctx context.Context) (Result, error) {
	res := Result{Cutoff: s.now().Add(-s.retention)}

	pruned, err := s.store.Prune(ctx, res.Cutoff)
	if err != nil {
		return res, errors.Wrap(err, "housekeeping prune")
	}

	res.Pruned = pruned

	if err := s.store.Optimize(ctx); err != nil {
		return res, errors.Wrap(err, "housekeeping optimize")
	}

	log.Info().Int64("pruned", res.Pruned).Time("cutoff", res.Cutoff).Msg("housekeeping done")

	return res, nil
}

// Scheduler runs a Sweeper on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	sweeper *Sweeper
	timeout time.Duration
}

// NewScheduler registers sweeper under the cron expression schedule. Each run gets timeout to finish.
func NewScheduler(schedule string, sweeper *Sweeper, timeout time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithParser(config.CronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper: sweeper,
		timeout: timeout,
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, errors.Wrapf(err, "invalid housekeeping schedule %q", schedule)
	}

	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.sweeper.Run(ctx); err != nil {
		log.Error().Err(err).Msg("housekeeping failed")
	}
}

// Start begins running scheduled sweeps in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Time("next", s.Next()).Msg("housekeeping scheduled")
}

// Next returns the time of the next scheduled sweep, or the zero time.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}

	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}

	return entries[0].Schedule.Next(time.Now())
}

// Stop stops scheduling and waits for a running sweep to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()

	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Warn().Msg("housekeeping still running at shutdown")
	}
}
