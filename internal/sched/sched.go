// Package sched wires up the cron job that periodically runs a sweep.
package sched

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/sweep"
)

// Scheduler wraps robfig/cron and drives the sweep orchestrator.
type Scheduler struct {
	cron    *cron.Cron
	sweeper *sweep.Orchestrator
	spec    string
	logger  *zap.Logger
}

// New creates a Scheduler firing on the given cron spec, e.g. "0 */6 * * *".
func New(sweeper *sweep.Orchestrator, spec string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		spec:    spec,
		logger:  logger,
	}
}

// Start registers the sweep job and starts the scheduler. One sweep runs
// immediately so leads appear without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("register sweep job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("sweep scheduler started", zap.String("spec", s.spec))

	go s.runSweep(ctx)
	return nil
}

// Stop shuts down the scheduler. Already-running sweeps finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("sweep scheduler stopped")
}

func (s *Scheduler) runSweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	totals, err := s.sweeper.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled sweep finished",
		zap.Int("processed", totals.Processed),
		zap.Int("new", totals.New),
	)
}
