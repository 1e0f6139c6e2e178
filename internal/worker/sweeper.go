package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// OverdueSweeper completes Pending orders whose estimate has passed.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context) (int64, error)
}

// Sweeper runs the overdue sweep on a cron schedule so that orders complete
// even when nobody opens the dashboard.
type Sweeper struct {
	target   OverdueSweeper
	schedule string
	logger   *slog.Logger

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

// NewSweeper constructs Sweeper. An empty schedule disables it.
func NewSweeper(target OverdueSweeper, schedule string, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		target:   target,
		schedule: schedule,
		logger:   logger.With("component", "overdue_sweeper"),
	}
}

// Start registers the sweep and launches the scheduler.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.InfoContext(ctx, "overdue sweep disabled")
		return nil
	}
	if s.cron != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(s.schedule, func() { s.RunOnce(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("schedule overdue sweep %q: %w", s.schedule, err)
	}

	c.Start()
	s.cron = c
	s.cancel = cancel
	s.logger.InfoContext(ctx, "overdue sweep started", slog.String("schedule", s.schedule))
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
	s.logger.Info("overdue sweep stopped")
}

// RunOnce performs a single sweep. Failures are logged and retried on the next tick.
func (s *Sweeper) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	completed, err := s.target.SweepOverdue(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "overdue sweep failed", slog.String("error", err.Error()))
		return
	}
	if completed > 0 {
		s.logger.DebugContext(ctx, "overdue sweep finished", slog.Int64("completed", completed))
	}
}
