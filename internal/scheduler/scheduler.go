package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"recruiter-console/internal/logger"
)

// Refresher re-fetches the application list.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler refreshes the board on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	board   Refresher
	timeout time.Duration
}

// NewScheduler registers a refresh of board on spec (cron with seconds).
// Overlapping runs are skipped.
func NewScheduler(spec string, board Refresher, timeout time.Duration) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	s := &Scheduler{
		cron:    c,
		board:   board,
		timeout: timeout,
	}

	if _, err := s.cron.AddFunc(spec, s.refresh); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	logger.Info("Refresh job registered", "schedule", spec)
	return s, nil
}

// refresh wraps one run with panic recovery
func (s *Scheduler) refresh() {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Refresh panicked", "panic", r)
		}
	}()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logger.Debug("Starting refresh")
	if err := s.board.Refresh(ctx); err != nil {
		logger.Warn("Refresh failed", "error", err)
		return
	}
	logger.Debug("Refresh completed")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Refresh scheduler started")
}

// Stop stops the scheduler and waits for a running refresh
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Refresh scheduler stopped")
}

// NextRun returns when the next refresh is due, or the zero time when stopped.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
