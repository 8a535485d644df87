// Package scheduler runs recurring task rollover on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Roller creates the next occurrences of finished recurring tasks.
// *store.Store satisfies it.
type Roller interface {
	Load()
	CheckAndRollRecurring() (int, error)
}

// Scheduler wraps cron-based jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *log.Logger
}

// New creates a scheduler using six-field specs (with seconds) in loc.
// A job still running when its next tick arrives is skipped, so the
// store never has two callers.
func New(loc *time.Location, logger *log.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

// Schedule registers job on spec. Descriptors such as @hourly and
// "@every 30m" are accepted too.
func (s *Scheduler) Schedule(spec string, job func()) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return 0, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return id, nil
}

// ScheduleRollover registers a rollover check of r on spec.
// Errors are logged; the schedule keeps running.
func (s *Scheduler) ScheduleRollover(spec string, r Roller) (cron.EntryID, error) {
	return s.Schedule(spec, s.rolloverJob(r))
}

// rolloverJob reloads r before every check so that changes made by other
// tick processes since the last run are seen and not overwritten.
func (s *Scheduler) rolloverJob(r Roller) func() {
	return func() {
		r.Load()
		created, err := r.CheckAndRollRecurring()
		if err != nil {
			s.logger.Error("recurring rollover failed", "err", err)
			return
		}
		if created > 0 {
			s.logger.Info("created recurring tasks", "count", created)
		}
	}
}

// Next returns when entry id will run next.
func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.Start()
	<-ctx.Done()
	s.Stop()
}

// cronLogger adapts a charm logger to cron.Logger. Cron's info output
// (schedule, wake) is routine, so it goes to debug.
type cronLogger struct {
	logger *log.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
