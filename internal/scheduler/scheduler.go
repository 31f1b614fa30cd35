// Package scheduler runs the report pipeline on a cron cadence.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled pipeline run.
type Job func(ctx context.Context)

// Scheduler triggers jobs on standard 5-field cron expressions.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// New creates a stopped scheduler. Panicking jobs are recovered and
// logged rather than taking the process down.
func New(log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(&cronLogger{log: log}))),
		log:  log,
	}
}

// Schedule registers a job under the given cron expression.
func (s *Scheduler) Schedule(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		job(context.Background())
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	s.log.Info("job scheduled", zap.String("cron", spec))
	return nil
}

// Start begins triggering jobs in a background goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts triggering and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// Next returns when the earliest registered job will fire next.
func (s *Scheduler) Next() (time.Time, bool) {
	var next time.Time
	for _, entry := range s.cron.Entries() {
		n := entry.Schedule.Next(time.Now())
		if next.IsZero() || n.Before(next) {
			next = n
		}
	}
	return next, !next.IsZero()
}

// cronLogger adapts zap to the cron logging interface.
type cronLogger struct {
	log *zap.Logger
}

func (c *cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Sugar().Infow(msg, keysAndValues...)
}

func (c *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
