package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the audit publisher.
type Metrics struct {
	// Queue metrics
	QueueDepth     prometheus.Gauge
	EventsEnqueued prometheus.Counter
	EventsDropped  prometheus.Counter

	// Persistence metrics
	PersistDuration prometheus.Histogram
	PersistFailures prometheus.Counter
	EventsPersisted *prometheus.CounterVec
}

// New creates the audit publisher metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mrzgate_audit_queue_depth",
			Help: "Current number of events waiting in the audit publisher queue",
		}),
		EventsEnqueued: factory.NewCounter(prometheus.CounterOpts{
			Name: "mrzgate_audit_events_enqueued_total",
			Help: "Total number of audit events accepted by the async queue",
		}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "mrzgate_audit_events_dropped_total",
			Help: "Total number of audit events dropped due to a full buffer",
		}),
		PersistDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mrzgate_audit_persist_duration_seconds",
			Help:    "Time taken to persist an audit event to the store",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "mrzgate_audit_persist_failures_total",
			Help: "Total number of audit event persistence failures",
		}),
		EventsPersisted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mrzgate_audit_events_persisted_total",
			Help: "Total number of audit events persisted, by category",
		}, []string{"category"}),
	}
}

func (m *Metrics) RecordEnqueued() {
	m.EventsEnqueued.Inc()
	m.QueueDepth.Inc()
}

func (m *Metrics) RecordDropped() {
	m.EventsDropped.Inc()
}

// RecordDequeued is called once the worker takes an event off the queue.
func (m *Metrics) RecordDequeued() {
	m.QueueDepth.Dec()
}

func (m *Metrics) RecordPersist(category string, d time.Duration, err error) {
	m.PersistDuration.Observe(d.Seconds())
	if err != nil {
		m.PersistFailures.Inc()
		return
	}
	m.EventsPersisted.WithLabelValues(category).Inc()
}
