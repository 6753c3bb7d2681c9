package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Reloader is one periodic unit of work, typically a *reload.Loader.
type Reloader interface {
	Load(ctx context.Context) (bool, error)
	Source() string
}

// Scheduler owns the refresh loop: it reloads the dataset on an interval.
type Scheduler struct {
	reloader Reloader
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that reloads at the given interval.
func NewScheduler(reloader Reloader, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		reloader: reloader,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the refresh loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting refresh scheduler",
		"interval", s.interval.String(),
		"source", s.reloader.Source(),
	)

	s.reload(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down refresh scheduler")
			return nil
		case <-time.After(s.interval):
			s.reload(ctx)
		}
	}
}

// reload runs one cycle. Failures are logged and the previous data is kept.
func (s *Scheduler) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	changed, err := s.reloader.Load(ctx)
	if err != nil {
		s.logger.Error("reload failed",
			"source", s.reloader.Source(),
			"error", err,
		)
		return
	}
	if changed {
		s.logger.Info("dataset refreshed", "source", s.reloader.Source())
	}
}
