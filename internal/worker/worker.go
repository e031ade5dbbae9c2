// Package worker runs the storefront's background maintenance.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/stride/internal/state"
)

// Config holds sweeper configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance in logs
	WorkerID string

	// Interval is how often stale client state is swept
	Interval time.Duration

	// Retention is how long a blob may go unsaved before it is dropped
	Retention time.Duration

	// Timeout bounds a single sweep
	Timeout time.Duration
}

// Sweeper periodically drops cart and session blobs of visitors who have
// not been seen within the retention window.
type Sweeper struct {
	config Config
	pruner state.Pruner
	now    func() time.Time
	logger *slog.Logger
}

// NewSweeper creates a new sweeper over pruner
func NewSweeper(pruner state.Pruner, config Config, logger *slog.Logger) *Sweeper {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("sweeper-%s", uuid.New().String()[:8])
	}
	if config.Interval == 0 {
		config.Interval = time.Hour
	}
	if config.Timeout == 0 {
		config.Timeout = time.Minute
	}

	return &Sweeper{
		config: config,
		pruner: pruner,
		now:    time.Now,
		logger: logger,
	}
}

// Start sweeps once immediately and then on every tick until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info("sweeper starting",
		"worker_id", s.config.WorkerID,
		"interval", s.config.Interval,
		"retention", s.config.Retention,
	)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("sweep failed", "worker_id", s.config.WorkerID, "error", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("sweeper shutting down", "worker_id", s.config.WorkerID)
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Sweep runs a single pass and returns the number of blobs removed.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	cutoff := s.now().Add(-s.config.Retention)
	n, err := s.pruner.Prune(ctx, cutoff)
	if err != nil {
		return n, err
	}
	if n > 0 {
		s.logger.Info("swept stale client state",
			"worker_id", s.config.WorkerID,
			"removed", n,
			"cutoff", cutoff,
		)
	}
	return n, nil
}
