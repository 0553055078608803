// Package scheduler triggers periodic validation runs from a cron spec.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is the task executed on every tick.
type Job func(ctx context.Context) error

// Scheduler owns the cron runner and the context handed to jobs.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// New registers job under spec. Overlapping ticks are skipped while a run is
// still in progress. The scheduler does not run until Start is called.
func New(spec string, job Job, logger *zap.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	ctx, cancel := context.WithCancel(context.Background())
	log := logger.With(zap.String("component", "scheduler"))

	_, err := c.AddFunc(spec, func() {
		log.Info("Scheduled run triggered")
		if err := job(ctx); err != nil {
			log.Error("Scheduled run failed", zap.Error(err))
			return
		}
		log.Info("Scheduled run completed")
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	return &Scheduler{cron: c, ctx: ctx, cancel: cancel}, nil
}

// Start launches the scheduler asynchronously.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels the running job, if any, and waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// runNow executes the registered job synchronously, outside the schedule.
func (s *Scheduler) runNow() {
	for _, e := range s.cron.Entries() {
		e.WrappedJob.Run()
	}
}
