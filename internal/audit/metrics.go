package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts audit appends and failures.
type Metrics struct {
	appends  prometheus.Counter
	failures prometheus.Counter
}

// NewMetrics creates and registers the audit metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		appends: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinscious_audit_appends_total",
			Help: "Audit events persisted.",
		}),
		failures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinscious_audit_append_failures_total",
			Help: "Audit appends that failed and aborted their operation.",
		}),
	}
}

// ObserveAppend records one successful append.
func (m *Metrics) ObserveAppend() {
	if m == nil {
		return
	}
	m.appends.Inc()
}

// ObserveAppendFailure records one failed append.
func (m *Metrics) ObserveAppendFailure() {
	if m == nil {
		return
	}
	m.failures.Inc()
}
