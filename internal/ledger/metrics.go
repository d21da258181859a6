package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"coinscious/internal/audit"
)

// Metrics counts ledger operations by action and outcome.
type Metrics struct {
	operations *prometheus.CounterVec
}

// NewMetrics creates and registers the ledger metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coinscious_ledger_operations_total",
			Help: "Ledger operations by action and outcome.",
		}, []string{"action", "outcome"}),
	}
}

// ObserveOperation records one completed operation.
func (m *Metrics) ObserveOperation(action audit.Action, allowed bool) {
	if m == nil {
		return
	}
	outcome := "denied"
	if allowed {
		outcome = "applied"
	}
	m.operations.WithLabelValues(string(action), outcome).Inc()
}
