// Package metrics exposes the engine's Prometheus collectors.
// Collectors live on a private registry so tests can create as many
// instances as they need without colliding on the default registerer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ticket_inventory"

// Cache lookup outcomes.
const (
	CacheHit          = "hit"
	CacheMissAbsent   = "miss_absent"
	CacheMissExpired  = "miss_expired"
	CacheMissEmpty    = "miss_empty"
	CacheMissForced   = "miss_forced"
	CacheMissCorrupt  = "miss_corrupt"
	CacheMissStoreErr = "miss_store_error"
)

// Metrics bundles the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	cacheLookups    *prometheus.CounterVec
	resolutions     *prometheus.CounterVec
	backendRequests *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
	refreshes       *prometheus.CounterVec
	invalidations   prometheus.Counter
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Inventory cache lookups by outcome.",
		}, []string{"outcome"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_resolutions_total",
			Help:      "Reference resolutions by kind and the tier that answered.",
		}, []string{"kind", "tier"}),
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Backend requests by resource and outcome.",
		}, []string{"resource", "outcome"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Backend request latency by resource.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_refreshes_total",
			Help:      "Inventory refreshes by outcome.",
		}, []string{"outcome"}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_invalidations_total",
			Help:      "Forced-refresh flags set.",
		}),
	}

	reg.MustRegister(
		m.cacheLookups,
		m.resolutions,
		m.backendRequests,
		m.backendLatency,
		m.refreshes,
		m.invalidations,
	)
	return m
}

// Handler returns the HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// CacheLookup records an inventory cache lookup outcome.
func (m *Metrics) CacheLookup(outcome string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

// Resolution records which tier resolved a reference ("placeholder" when none did).
func (m *Metrics) Resolution(kind, tier string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(kind, tier).Inc()
}

// BackendRequest records a backend call.
func (m *Metrics) BackendRequest(resource, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.backendRequests.WithLabelValues(resource, outcome).Inc()
	m.backendLatency.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// Refresh records an inventory refresh outcome ("ok" or "error").
func (m *Metrics) Refresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

// Invalidation records a forced-refresh flag being set.
func (m *Metrics) Invalidation() {
	if m == nil {
		return
	}
	m.invalidations.Inc()
}
