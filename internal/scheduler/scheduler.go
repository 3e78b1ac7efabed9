// Package scheduler runs periodic ledger maintenance.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/config"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/metrics"
)

const pruneTimeout = 5 * time.Minute

// Pruner removes processed ledger records last updated before a cutoff
type Pruner interface {
	PruneProcessed(ctx context.Context, before time.Time) (int64, error)
}

// Scheduler periodically prunes processed ledger records
type Scheduler struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	config    config.RetentionConfig
	pruner    Pruner
	metrics   *metrics.Metrics
	now       func() time.Time
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	mu        sync.RWMutex
}

// NewScheduler creates a retention scheduler
func NewScheduler(cfg config.RetentionConfig, pruner Pruner, m *metrics.Metrics) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		config:  cfg,
		pruner:  pruner,
		metrics: m,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start schedules the sweep. It is a no-op when retention is disabled.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if !s.config.Enabled() {
		logrus.Info("Ledger retention disabled, scheduler not started")
		return nil
	}
	if s.config.IntervalMinutes < 1 {
		return fmt.Errorf("retention interval must be at least one minute, got %d", s.config.IntervalMinutes)
	}

	schedule := fmt.Sprintf("@every %dm", s.config.IntervalMinutes)
	entryID, err := s.cron.AddFunc(schedule, s.sweep)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true

	logrus.WithFields(logrus.Fields{
		"interval_minutes": s.config.IntervalMinutes,
		"retention_days":   s.config.Days,
	}).Info("Retention scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running sweep
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.cancel()
	ctx := s.cron.Stop()

	select {
	case <-ctx.Done():
		logrus.Info("Retention scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Retention scheduler stop timeout, forcing shutdown")
	}

	s.isRunning = false
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *Scheduler) sweep() {
	if _, err := s.RunOnce(); err != nil {
		logrus.WithError(err).Error("Retention sweep failed")
	}
}

// RunOnce prunes processed records older than the retention window
func (s *Scheduler) RunOnce() (int64, error) {
	s.wg.Add(1)
	defer s.wg.Done()

	if !s.config.Enabled() {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(s.ctx, pruneTimeout)
	defer cancel()

	cutoff := s.now().Add(-time.Duration(s.config.Days) * 24 * time.Hour)
	removed, err := s.pruner.PruneProcessed(ctx, cutoff)
	if err != nil {
		s.metrics.LedgerErrors.WithLabelValues("prune_processed").Inc()
		return 0, fmt.Errorf("failed to prune processed records: %w", err)
	}

	s.metrics.PrunedRecords.Add(float64(removed))
	logrus.WithFields(logrus.Fields{
		"removed": removed,
		"cutoff":  cutoff.Format(time.RFC3339),
	}).Info("Retention sweep completed")
	return removed, nil
}

// GetNextRun returns the time of the next scheduled run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// GetLastRun returns the time of the last scheduled run
func (s *Scheduler) GetLastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Prev
}

// Wait waits for in-progress sweeps
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
