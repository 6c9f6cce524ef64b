// Package cleanup runs the retention purge for stored document records.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"mrzgate/internal/evidence/document/metrics"
)

// Result describes a single purge run.
type Result struct {
	Deleted  int
	Cutoff   time.Time
	Duration time.Duration
}

// ExpiredStore deletes records whose retention ended at or before now.
type ExpiredStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source used as the purge cutoff.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service periodically deletes records past retention. Reads already hide
// them; purging only reclaims storage.
type Service struct {
	store    ExpiredStore
	logger   *slog.Logger
	interval time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
}

func New(store ExpiredStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		logger:   slog.Default(),
		interval: 5 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the purge on every tick until ctx ends, and returns ctx.Err().
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			res, err := s.RunOnce(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "document_purge_failed",
					"error", err,
					"duration_ms", res.Duration.Milliseconds(),
				)
				continue
			}
			if res.Deleted > 0 {
				s.logger.InfoContext(ctx, "document_purge_completed",
					"deleted", res.Deleted,
					"duration_ms", res.Duration.Milliseconds(),
				)
			}

		case <-ctx.Done():
			s.logger.Info("document purge worker stopping", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

// RunOnce executes a single purge and records its metrics. The result is
// never nil; on error only Cutoff and Duration are set.
func (s *Service) RunOnce(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{Cutoff: s.now().UTC()}

	deleted, err := s.store.DeleteExpired(ctx, res.Cutoff)
	res.Duration = time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordPurge(deleted, res.Duration, err)
	}
	if err != nil {
		return res, err
	}
	res.Deleted = deleted
	return res, nil
}
