package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// BackendMetrics records calls made to the store backend.
type BackendMetrics struct {
	duration *prometheus.HistogramVec
	calls    *prometheus.CounterVec
	cache    *prometheus.CounterVec
}

// NewBackendMetrics registers the backend metrics on the provided registerer.
func NewBackendMetrics(reg prometheus.Registerer) *BackendMetrics {
	if reg == nil {
		return &BackendMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_backend_request_duration_seconds",
		Help:    "Duration of store backend requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_backend_requests_total",
		Help: "Store backend requests by operation and outcome.",
	}, []string{"operation", "outcome"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_cache_total",
		Help: "Catalog cache lookups by kind and result.",
	}, []string{"kind", "result"})
	reg.MustRegister(duration, calls, cache)
	return &BackendMetrics{
		duration: duration,
		calls:    calls,
		cache:    cache,
	}
}

// Observe records one backend call. It matches the storeapi observer signature.
func (m *BackendMetrics) Observe(operation string, duration time.Duration, err error) {
	if m == nil || m.duration == nil {
		return
	}
	op := normalizeLabel(operation)
	m.duration.WithLabelValues(op).Observe(duration.Seconds())
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.calls.WithLabelValues(op, outcome).Inc()
}

// CacheHit counts a catalog cache hit for the given kind (products, categories).
func (m *BackendMetrics) CacheHit(kind string) {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues(normalizeLabel(kind), "hit").Inc()
}

// CacheMiss counts a catalog cache miss for the given kind.
func (m *BackendMetrics) CacheMiss(kind string) {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues(normalizeLabel(kind), "miss").Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
