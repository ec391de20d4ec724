// Package scheduler runs the nightly pay period cascade for every user.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/werner-traut/budget/internal/calendar"
	"github.com/werner-traut/budget/internal/logger"
	"github.com/werner-traut/budget/internal/services"
)

// Cascader is the part of the pay period service the scheduler drives.
type Cascader interface {
	CascadeAllUsers(ctx context.Context, today time.Time) (*services.CascadeRunSummary, error)
}

// Scheduler wraps a cron runner with a single cascade job.
type Scheduler struct {
	cron     *cron.Cron
	cascader Cascader
	log      *zap.SugaredLogger
	now      func() time.Time
	timeout  time.Duration
}

// New registers the cascade job on schedule, a standard five-field cron
// expression evaluated in UTC.
func New(cascader Cascader, schedule string) (*Scheduler, error) {
	log := logger.Named("scheduler")
	cl := cronLogger{log: log}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		cascader: cascader,
		log:      log,
		now:      time.Now,
		timeout:  10 * time.Minute,
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid cascade schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running the job in the background.
func (s *Scheduler) Start() {
	s.log.Infow("scheduler started", "entries", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop prevents new runs and returns a context that is done once any
// in-flight run has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce cascades every due user for the current UTC day.
func (s *Scheduler) RunOnce(ctx context.Context) (*services.CascadeRunSummary, error) {
	today := calendar.Day(s.now())
	start := time.Now()

	summary, err := s.cascader.CascadeAllUsers(ctx, today)
	if err != nil {
		s.log.Errorw("cascade run failed", "today", calendar.Format(today), "error", err)
		return summary, err
	}

	s.log.Infow("cascade run finished",
		"today", calendar.Format(today),
		"users", summary.Users,
		"cascaded", summary.Cascaded,
		"failed", summary.Failed,
		"duration", time.Since(start),
	)
	return summary, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, _ = s.RunOnce(ctx)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
