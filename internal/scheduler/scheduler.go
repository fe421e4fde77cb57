// Package scheduler runs the periodic neighbor-index refresh and the audit
// log prune on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/vijay-prabhu/jobmatch/internal/engine"
	"github.com/vijay-prabhu/jobmatch/internal/logging"
)

// Jobs is the work the scheduler triggers
type Jobs interface {
	Refresh(ctx context.Context, progress engine.ProgressCallback) (*engine.RefreshResult, error)
	Prune(ctx context.Context) (int64, error)
}

// Scheduler wraps robfig/cron and owns the refresh and prune jobs
type Scheduler struct {
	cron        *cron.Cron
	jobs        Jobs
	logger      *slog.Logger
	refreshSpec string // e.g. "@every 1h"
	pruneSpec   string // e.g. "@daily"
}

// New creates a Scheduler. Overlapping runs of the same job are skipped.
func New(jobs Jobs, refreshSpec, pruneSpec string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("component", "scheduler")
	cl := cronLogger{logger}

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		jobs:        jobs,
		logger:      logger,
		refreshSpec: refreshSpec,
		pruneSpec:   pruneSpec,
	}
}

// Start registers both jobs and starts the cron loop. One refresh runs
// immediately so the index is warm without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.refreshSpec, func() { s.runRefresh(ctx) }); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.refreshSpec, err)
	}
	if _, err := s.cron.AddFunc(s.pruneSpec, func() { s.runPrune(ctx) }); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", s.pruneSpec, err)
	}

	s.cron.Start()
	s.logger.Info("cron started", "refresh", s.refreshSpec, "prune", s.pruneSpec)

	go s.runRefresh(ctx)
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("cron stopped")
}

// Run starts the scheduler and blocks until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// RunOnce runs a refresh followed by a prune and returns their errors
func (s *Scheduler) RunOnce(ctx context.Context) error {
	var errs []error
	if err := s.runRefresh(ctx); err != nil {
		errs = append(errs, fmt.Errorf("refresh: %w", err))
	}
	if err := s.runPrune(ctx); err != nil {
		errs = append(errs, fmt.Errorf("prune: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Scheduler) runRefresh(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.logger.Debug("refresh started")

	result, err := s.jobs.Refresh(ctx, nil)
	if err != nil {
		s.logger.Error("refresh failed", "error", err)
		return err
	}
	s.logger.Info("refresh complete", "users", result.Users, "events", result.Events, "indexed", result.Indexed)
	return nil
}

func (s *Scheduler) runPrune(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	deleted, err := s.jobs.Prune(ctx)
	if err != nil {
		s.logger.Error("prune failed", "error", err)
		return err
	}
	s.logger.Info("prune complete", "deleted", deleted)
	return nil
}

// cronLogger routes cron's own messages through slog
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
