package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ComparisonMetrics records comparison set activity. A nil receiver is a no-op.
type ComparisonMetrics struct {
	adds          *prometheus.CounterVec
	removals      prometheus.Counter
	fetchFailures *prometheus.CounterVec
	persistErrors prometheus.Counter
	setSize       prometheus.Gauge
}

// NewComparisonMetrics registers the comparison metrics on the provided registerer.
func NewComparisonMetrics(reg prometheus.Registerer) *ComparisonMetrics {
	if reg == nil {
		return &ComparisonMetrics{}
	}
	adds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comparison_add_total",
		Help: "Attempts to stage a product for comparison, by outcome.",
	}, []string{"outcome"})
	removals := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comparison_remove_total",
		Help: "Products removed from the comparison set.",
	})
	fetchFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comparison_fetch_failures_total",
		Help: "Failed backend requests, by operation.",
	}, []string{"operation"})
	persistErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comparison_persist_errors_total",
		Help: "Failed writes of the comparison set to storage.",
	})
	setSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "comparison_set_size",
		Help: "Number of products currently staged for comparison.",
	})
	reg.MustRegister(adds, removals, fetchFailures, persistErrors, setSize)
	return &ComparisonMetrics{
		adds:          adds,
		removals:      removals,
		fetchFailures: fetchFailures,
		persistErrors: persistErrors,
		setSize:       setSize,
	}
}

// IncAdd counts an add attempt with the given outcome.
func (m *ComparisonMetrics) IncAdd(outcome string) {
	if m == nil || m.adds == nil {
		return
	}
	m.adds.WithLabelValues(outcome).Inc()
}

// IncRemove counts a removal.
func (m *ComparisonMetrics) IncRemove() {
	if m == nil || m.removals == nil {
		return
	}
	m.removals.Inc()
}

// IncFetchFailure counts a failed backend operation.
func (m *ComparisonMetrics) IncFetchFailure(operation string) {
	if m == nil || m.fetchFailures == nil {
		return
	}
	m.fetchFailures.WithLabelValues(operation).Inc()
}

// IncPersistError counts a failed storage write.
func (m *ComparisonMetrics) IncPersistError() {
	if m == nil || m.persistErrors == nil {
		return
	}
	m.persistErrors.Inc()
}

// SetSize records the current set size.
func (m *ComparisonMetrics) SetSize(n int) {
	if m == nil || m.setSize == nil {
		return
	}
	m.setSize.Set(float64(n))
}
