// Package metrics provides Prometheus instrumentation for the series fetcher.
//
// Metrics exposed:
//   - bcbseries_fetch_total: Counter of Fetch calls by outcome (ok, empty, unknown, failed, canceled)
//   - bcbseries_upstream_requests_total: Counter of SGS requests by status class
//   - bcbseries_upstream_request_duration_seconds: Histogram of SGS request latency
//   - bcbseries_cache_hits_total / bcbseries_cache_misses_total: table cache lookups
//   - bcbseries_cache_entries: Gauge of cached indicator tables
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	FetchTotal       *prometheus.CounterVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	CacheEntries     prometheus.Gauge
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// binaries and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FetchTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bcbseries_fetch_total",
			Help: "Total number of series fetches by outcome",
		}, []string{"outcome"}),

		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bcbseries_upstream_requests_total",
			Help: "Total number of SGS API requests by status",
		}, []string{"status"}),

		UpstreamDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bcbseries_upstream_request_duration_seconds",
			Help:    "Duration of SGS API requests",
			Buckets: prometheus.DefBuckets,
		}),

		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "bcbseries_cache_hits_total",
			Help: "Total number of series cache hits",
		}),

		CacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "bcbseries_cache_misses_total",
			Help: "Total number of series cache misses",
		}),

		CacheEntries: f.NewGauge(prometheus.GaugeOpts{
			Name: "bcbseries_cache_entries",
			Help: "Number of indicator tables currently cached",
		}),
	}
}

// The recorders below are no-ops on a nil *Metrics so callers can run uninstrumented.

func (m *Metrics) RecordFetch(outcome string) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveUpstream(status string, seconds float64) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(status).Inc()
	m.UpstreamDuration.Observe(seconds)
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Inc()
		return
	}
	m.CacheMisses.Inc()
}

func (m *Metrics) SetCacheEntries(n int) {
	if m == nil {
		return
	}
	m.CacheEntries.Set(float64(n))
}
