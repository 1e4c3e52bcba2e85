package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "footprint"

// Metrics holds the collectors exposed on /metrics
type Metrics struct {
	registry *prometheus.Registry

	Calculations   *prometheus.CounterVec
	Predictions    *prometheus.CounterVec
	Exports        *prometheus.CounterVec
	ExportDuration *prometheus.HistogramVec
	CacheRequests  *prometheus.CounterVec
	Snapshots      *prometheus.CounterVec
}

// New creates the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Footprint calculations served, by operation.",
		}, []string{"operation"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Next-month predictions, by source.",
		}, []string{"source"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_exports_total",
			Help:      "Report exports, by format and status.",
		}, []string{"format", "status"}),
		ExportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_export_duration_seconds",
			Help:      "Time spent building and encoding a report.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Response cache lookups, by result.",
		}, []string{"result"}),
		Snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Scheduled report snapshots, by status.",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		m.Calculations,
		m.Predictions,
		m.Exports,
		m.ExportDuration,
		m.CacheRequests,
		m.Snapshots,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CacheHit records a cache hit
func (m *Metrics) CacheHit() {
	m.CacheRequests.WithLabelValues("hit").Inc()
}

// CacheMiss records a cache miss
func (m *Metrics) CacheMiss() {
	m.CacheRequests.WithLabelValues("miss").Inc()
}
