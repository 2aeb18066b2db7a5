package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a Pruner on a cron schedule.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a Scheduler around pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: slog.Default().With("component", "store.retention.scheduler"),
	}
}

// Start begins scheduled pruning according to schedule (a standard cron
// expression, e.g. "0 3 * * *"). An empty schedule or a disabled pruner
// (Days == 0) is a no-op.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pruner.cfg.Days <= 0 || schedule == "" {
		s.logger.Info("asset-history retention disabled, scheduler not started")
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.runPrune(ctx) }); err != nil {
		return fmt.Errorf("schedule asset-history pruning: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("asset-history retention scheduler started", "schedule", schedule, "retention_days", s.pruner.cfg.Days)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runPrune(ctx context.Context) {
	if _, err := s.pruner.Prune(ctx); err != nil {
		s.logger.Error("scheduled asset-history prune failed", "error", err)
	}
}

// Stop stops the scheduler, waiting for any in-flight prune to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		doneCtx := s.cron.Stop()
		<-doneCtx.Done()
		s.running = false
		s.logger.Info("asset-history retention scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is currently active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
