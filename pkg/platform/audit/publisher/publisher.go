// Package publisher persists audit events, synchronously or through a
// bounded in-memory queue drained by a single worker.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	id "mrzgate/pkg/domain"
	dErrors "mrzgate/pkg/domain-errors"
	audit "mrzgate/pkg/platform/audit"
	"mrzgate/pkg/platform/audit/metrics"
)

// persistTimeout bounds a single Append made by the async worker, which has
// no request context to inherit.
const persistTimeout = 5 * time.Second

// Publisher appends audit events to a store. In async mode Emit never blocks
// on storage: events are queued and a full queue drops the event.
type Publisher struct {
	store   audit.Store
	events  chan audit.Event
	wg      sync.WaitGroup
	logger  *slog.Logger
	metrics *metrics.Metrics
	async   bool
}

type Option func(*Publisher)

// WithAsyncBuffer enables the queue with the given capacity.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan audit.Event, size)
			p.async = true
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.processEvents()
	}
	return p
}

func (p *Publisher) processEvents() {
	defer p.wg.Done()
	for event := range p.events {
		if p.metrics != nil {
			p.metrics.RecordDequeued()
		}
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		if err := p.persist(ctx, event); err != nil {
			p.logger.Error("failed to persist audit event",
				"error", err,
				"action", event.Action,
				"request_id", event.RequestID,
			)
		}
		cancel()
	}
}

func (p *Publisher) persist(ctx context.Context, event audit.Event) error {
	start := time.Now()
	err := p.store.Append(ctx, event)
	if p.metrics != nil {
		p.metrics.RecordPersist(string(event.Category), time.Since(start), err)
	}
	return err
}

// Close stops accepting events and waits for the queue to drain. Emit must
// not be called after Close.
func (p *Publisher) Close() {
	if p.async && p.events != nil {
		close(p.events)
		p.wg.Wait()
	}
}

func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if !p.async {
		return p.persist(ctx, event)
	}
	select {
	case p.events <- event:
		if p.metrics != nil {
			p.metrics.RecordEnqueued()
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		if p.metrics != nil {
			p.metrics.RecordDropped()
		}
		p.logger.Warn("audit buffer full, event dropped",
			"action", event.Action,
			"request_id", event.RequestID,
		)
		return dErrors.New(dErrors.CodeInternal, "audit buffer full")
	}
}

func (p *Publisher) List(ctx context.Context, clientID id.ClientID) ([]audit.Event, error) {
	return p.store.ListByClient(ctx, clientID)
}

func (p *Publisher) Recent(ctx context.Context, limit int) ([]audit.Event, error) {
	return p.store.ListRecent(ctx, limit)
}
