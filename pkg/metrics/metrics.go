package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart activity and order submission outcomes.
type StorefrontMetrics struct {
	cartMutations   *prometheus.CounterVec
	orderOutcomes   *prometheus.CounterVec
	catalogDuration *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_submissions_total",
		Help: "Order submissions by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_request_duration_seconds",
		Help:    "Duration of catalog collaborator requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	reg.MustRegister(mutations, outcomes, duration)
	return &StorefrontMetrics{
		cartMutations:   mutations,
		orderOutcomes:   outcomes,
		catalogDuration: duration,
	}
}

// IncCartMutation increments the mutation counter for the named operation.
func (m *StorefrontMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncOrderOutcome increments the submission counter for the named outcome.
func (m *StorefrontMetrics) IncOrderOutcome(outcome string) {
	if m == nil || m.orderOutcomes == nil {
		return
	}
	m.orderOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveCatalogDuration records the duration of a catalog request.
func (m *StorefrontMetrics) ObserveCatalogDuration(op string, duration time.Duration) {
	if m == nil || m.catalogDuration == nil {
		return
	}
	m.catalogDuration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
