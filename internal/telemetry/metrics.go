// Package telemetry provides Prometheus metrics for the aggregation pipeline
// and the HTTP API.
package telemetry

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry

	// Aggregation pipeline
	RunsTotal       prometheus.Counter
	RunsFailed      prometheus.Counter
	RunsDegraded    prometheus.Counter
	RunDuration     prometheus.Histogram
	SnapshotRecords prometheus.Gauge

	// Per-endpoint fetches
	EndpointFetches  *prometheus.CounterVec
	EndpointDuration *prometheus.HistogramVec

	// Gateway response cache
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// HTTP API
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Document pipeline
	OCRJobs *prometheus.CounterVec

	// Event stream
	SSEClients prometheus.Gauge
}

// NewMetrics creates a new instance of Metrics with its own registry.
// It returns an error if any metric fails to register.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.RunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fra_runs_total",
		Help: "Total number of aggregation runs started",
	})

	m.RunsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fra_runs_failed_total",
		Help: "Total number of aggregation runs that produced no records",
	})

	m.RunsDegraded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fra_runs_degraded_total",
		Help: "Total number of aggregation runs with at least one failed endpoint",
	})

	m.RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fra_run_duration_seconds",
		Help:    "Duration of aggregation runs in seconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	m.SnapshotRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fra_snapshot_records",
		Help: "Number of records in the current aggregation snapshot",
	})

	m.EndpointFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fra_endpoint_fetches_total",
		Help: "Total number of source endpoint fetches by outcome",
	}, []string{"endpoint", "outcome"})

	m.EndpointDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fra_endpoint_fetch_duration_seconds",
		Help:    "Duration of source endpoint fetches in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"endpoint"})

	m.CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fra_cache_hits_total",
		Help: "Total number of gateway responses served from cache",
	})

	m.CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fra_cache_misses_total",
		Help: "Total number of gateway responses fetched upstream",
	})

	m.HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fra_http_requests_total",
		Help: "Total number of HTTP API requests by route and status",
	}, []string{"method", "path", "status"})

	m.HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fra_http_request_duration_seconds",
		Help:    "Duration of HTTP API requests in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"method", "path"})

	m.OCRJobs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fra_ocr_jobs_total",
		Help: "Total number of OCR jobs by final status",
	}, []string{"status"})

	m.SSEClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fra_sse_clients",
		Help: "Number of connected event stream clients",
	})

	collectors := []prometheus.Collector{
		m.RunsTotal, m.RunsFailed, m.RunsDegraded, m.RunDuration, m.SnapshotRecords,
		m.EndpointFetches, m.EndpointDuration,
		m.CacheHits, m.CacheMisses,
		m.HTTPRequests, m.HTTPDuration,
		m.OCRJobs, m.SSEClients,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	return m, nil
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      log.New(os.Stderr, "metrics handler: ", log.LstdFlags),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// ObserveRun records the outcome of one aggregation run.
func (m *Metrics) ObserveRun(seconds float64, records, failedEndpoints int) {
	m.RunsTotal.Inc()
	m.RunDuration.Observe(seconds)
	m.SnapshotRecords.Set(float64(records))
	if records == 0 {
		m.RunsFailed.Inc()
	}
	if failedEndpoints > 0 {
		m.RunsDegraded.Inc()
	}
}

// ObserveEndpointFetch records one endpoint fetch attempt.
func (m *Metrics) ObserveEndpointFetch(endpoint string, err error, seconds float64) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.EndpointFetches.WithLabelValues(endpoint, outcome).Inc()
	m.EndpointDuration.WithLabelValues(endpoint).Observe(seconds)
}

// RecordCacheLookup counts a gateway cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}

// RecordHTTPRequest counts one served API request. path should be the route
// template, not the raw URL, to keep label cardinality bounded.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, seconds float64) {
	m.HTTPRequests.WithLabelValues(method, path, fmt.Sprintf("%d", status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordOCRJob counts one OCR job reaching a final status.
func (m *Metrics) RecordOCRJob(status string) {
	m.OCRJobs.WithLabelValues(status).Inc()
}

// AddSSEClient adjusts the connected event stream client gauge.
func (m *Metrics) AddSSEClient(delta int) {
	m.SSEClients.Add(float64(delta))
}
