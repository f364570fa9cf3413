// Package job runs the periodic cache refreshes in the background.
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Func is one unit of background work.
type Func func(ctx context.Context) error

type entry struct {
	name string
	fn   Func
}

// Scheduler runs registered jobs on cron specs. A run that is still going
// when its next tick fires is skipped.
type Scheduler struct {
	cron    *cron.Cron
	log     *zap.Logger
	timeout time.Duration
	jobs    []entry
}

func NewScheduler(log *zap.Logger, timeout time.Duration) *Scheduler {
	cl := cronLogger{log: log.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:     log,
		timeout: timeout,
	}
}

// Add registers fn under spec, e.g. "@every 5m" or "*/10 * * * *".
func (s *Scheduler) Add(spec, name string, fn Func) error {
	e := entry{name: name, fn: fn}
	if _, err := s.cron.AddFunc(spec, func() { s.run(context.Background(), e) }); err != nil {
		return fmt.Errorf("schedule %s with %q: %w", name, spec, err)
	}
	s.jobs = append(s.jobs, e)
	return nil
}

// RunOnce runs every registered job now, in registration order.
// Failures are logged and do not stop the remaining jobs.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, e := range s.jobs {
		s.run(ctx, e)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(ctx context.Context, e entry) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := e.fn(ctx); err != nil {
		s.log.Error("Cron Job: failed", zap.String("job", e.name), zap.Error(err))
		return
	}
	s.log.Debug("Cron Job: done", zap.String("job", e.name), zap.Duration("duration", time.Since(start)))
}

// cronLogger routes the scheduler's own messages to zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
