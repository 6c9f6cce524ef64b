package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process-wide Prometheus metrics of the gateway.
type Metrics struct {
	BuildInfo    *prometheus.GaugeVec
	AuthFailures *prometheus.CounterVec
}

// New creates and registers the metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BuildInfo: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mrzgate_build_info",
			Help: "Build information, constant 1, labeled by version and environment",
		}, []string{"version", "environment"}),
		// - Auth failures per minute (rate)
		AuthFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mrzgate_auth_failures_total",
			Help: "Total number of rejected bearer tokens, labeled by reason",
		}, []string{"reason"}),
	}
}

// SetBuildInfo publishes the running version.
func (m *Metrics) SetBuildInfo(version, environment string) {
	m.BuildInfo.WithLabelValues(version, environment).Set(1)
}

// IncrementAuthFailures increments the auth failures counter for reason.
func (m *Metrics) IncrementAuthFailures(reason string) {
	m.AuthFailures.WithLabelValues(reason).Inc()
}
