// Package metrics provides Prometheus metrics for MRZ decoding.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the document module metrics.
type Metrics struct {
	DecodedTotal   *prometheus.CounterVec   // Accepted documents by format
	RejectedTotal  *prometheus.CounterVec   // Rejections by reason and format ("unknown" when undetected)
	DecodeDuration *prometheus.HistogramVec // Decode latency by outcome
	BatchSize      prometheus.Histogram     // Items per batch request
	LookupsTotal   *prometheus.CounterVec   // Record lookups by result (hit, miss)

	PurgeRunsTotal *prometheus.CounterVec // Retention purge runs by status
	PurgedTotal    prometheus.Counter     // Records removed after retention
	PurgeDuration  prometheus.Histogram
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DecodedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mrzgate_documents_decoded_total",
			Help: "Total number of MRZ texts decoded successfully, by format",
		}, []string{"format"}),

		RejectedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mrzgate_documents_rejected_total",
			Help: "Total number of MRZ texts rejected, by reason and format",
		}, []string{"reason", "format"}),

		DecodeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mrzgate_document_decode_duration_seconds",
			Help:    "Duration of a single MRZ decode including persistence",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1}, // decoding is CPU-only; storage dominates the tail
		}, []string{"outcome"}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mrzgate_document_batch_size",
			Help:    "Number of items per batch decode request",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		}),

		LookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mrzgate_document_lookups_total",
			Help: "Total number of stored record lookups, by result",
		}, []string{"result"}),

		PurgeRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mrzgate_document_purge_runs_total",
			Help: "Total number of retention purge runs, by status",
		}, []string{"status"}),

		PurgedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "mrzgate_documents_purged_total",
			Help: "Total number of stored records deleted after their retention ended",
		}),

		PurgeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mrzgate_document_purge_duration_seconds",
			Help:    "Duration of a retention purge run",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) RecordDecoded(format string, d time.Duration) {
	m.DecodedTotal.WithLabelValues(format).Inc()
	m.DecodeDuration.WithLabelValues("decoded").Observe(d.Seconds())
}

func (m *Metrics) RecordRejected(reason, format string, d time.Duration) {
	m.RejectedTotal.WithLabelValues(reason, format).Inc()
	m.DecodeDuration.WithLabelValues("rejected").Observe(d.Seconds())
}

func (m *Metrics) ObserveBatchSize(n int) {
	m.BatchSize.Observe(float64(n))
}

func (m *Metrics) RecordLookup(found bool) {
	result := "miss"
	if found {
		result = "hit"
	}
	m.LookupsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordPurge(deleted int, d time.Duration, err error) {
	m.PurgeDuration.Observe(d.Seconds())
	if err != nil {
		m.PurgeRunsTotal.WithLabelValues("error").Inc()
		return
	}
	m.PurgeRunsTotal.WithLabelValues("success").Inc()
	m.PurgedTotal.Add(float64(deleted))
}
