package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the DASH packager.
type Metrics struct {
	registry                *prometheus.Registry
	requestsTotal           prometheus.Counter
	manifestsGeneratedTotal prometheus.Counter
	manifestCacheHitsTotal  prometheus.Counter
	manifestCacheEntries    prometheus.Gauge
	errorsTotal             prometheus.Counter
}

// New creates and registers Prometheus metrics for the packager.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dash_requests_total",
		Help: "Total number of HTTP requests received",
	})
	manifestsGeneratedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dash_manifests_generated_total",
		Help: "Total number of MPD documents generated (cache misses)",
	})
	manifestCacheHitsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dash_manifest_cache_hits_total",
		Help: "Total number of manifest requests served from the cache",
	})
	manifestCacheEntries := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dash_manifest_cache_entries",
		Help: "Number of manifests currently held in the cache",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dash_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})

	registry.MustRegister(
		requestsTotal,
		manifestsGeneratedTotal,
		manifestCacheHitsTotal,
		manifestCacheEntries,
		errorsTotal,
	)

	return &Metrics{
		registry:                registry,
		requestsTotal:           requestsTotal,
		manifestsGeneratedTotal: manifestsGeneratedTotal,
		manifestCacheHitsTotal:  manifestCacheHitsTotal,
		manifestCacheEntries:    manifestCacheEntries,
		errorsTotal:             errorsTotal,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncManifestsGenerated increments the manifests generated counter.
func (m *Metrics) IncManifestsGenerated() {
	m.manifestsGeneratedTotal.Inc()
}

// IncCacheHits increments the manifest cache hit counter.
func (m *Metrics) IncCacheHits() {
	m.manifestCacheHitsTotal.Inc()
}

// SetCacheEntries sets the manifest cache size gauge.
func (m *Metrics) SetCacheEntries(n int) {
	m.manifestCacheEntries.Set(float64(n))
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values
// (e.g. the cache entry count).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
