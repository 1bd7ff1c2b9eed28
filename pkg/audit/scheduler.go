package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig controls how long audit records are kept.
type RetentionConfig struct {
	// Days is the retention window; records older than this are pruned.
	// Zero disables pruning.
	Days int

	// Schedule is a standard cron expression for when pruning runs,
	// e.g. "0 3 * * *" for daily at 3 AM. Empty disables the scheduler.
	Schedule string
}

// Scheduler prunes old audit records on a cron schedule.
type Scheduler struct {
	store  *Store
	config RetentionConfig
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a retention scheduler for the given store.
func NewScheduler(store *Store, config RetentionConfig) *Scheduler {
	return &Scheduler{
		store:  store,
		config: config,
		cron:   cron.New(),
		logger: slog.Default().With("component", "audit.scheduler"),
	}
}

// Start begins scheduled pruning. It is a no-op when the schedule is empty
// or the retention window is zero.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if s.config.Schedule == "" || s.config.Days <= 0 {
		s.logger.Info("audit retention not configured, scheduler idle")
		return nil
	}

	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", s.config.Schedule, err)
	}
	if _, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.prune(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule audit pruning: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("audit retention scheduler started",
		"schedule", s.config.Schedule,
		"retention_days", s.config.Days,
	)
	return nil
}

// Stop halts scheduled pruning, waiting for an in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("audit retention scheduler stopped")
}

func (s *Scheduler) prune(ctx context.Context) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.config.Days)
	n, err := s.store.PruneBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("audit pruning failed", "error", err)
		return
	}
	s.logger.Info("audit records pruned", "deleted", n, "cutoff", cutoff)
}
