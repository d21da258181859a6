package compliance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	id "coinscious/pkg/domain"
)

// Metrics counts verdicts by outcome and reason code.
type Metrics struct {
	verdicts *prometheus.CounterVec
}

// NewMetrics creates and registers the compliance metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		verdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coinscious_compliance_verdicts_total",
			Help: "Compliance verdicts by partition and reason code.",
		}, []string{"partition", "reason"}),
	}
}

// ObserveVerdict records one verdict.
func (m *Metrics) ObserveVerdict(partition id.Partition, reason id.ReasonCode) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(partition.String(), reason.String()).Inc()
}
