package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	httpErrorsTotal        *prometheus.CounterVec
	insightRunsTotal       *prometheus.CounterVec
	insightPersistFailures *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors shared by the HTTP
// middleware and the insight pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eduspark_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"family", "method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eduspark_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"family", "method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eduspark_http_errors_total",
			Help: "Total number of error responses.",
		}, []string{"family", "method", "route", "status"})

		insightRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eduspark_insight_runs_total",
			Help: "Insight pipeline runs by prediction type and outcome.",
		}, []string{"type", "outcome"})

		insightPersistFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eduspark_insight_persist_failures_total",
			Help: "Prediction rows that could not be written after a successful generation.",
		}, []string{"type"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			insightRunsTotal,
			insightPersistFailures,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// InsightRuns exposes the per-type pipeline outcome counter. Outcomes are
// "ok", "input_error", "generation_error" and "schema_mismatch".
func InsightRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return insightRunsTotal
}

// InsightPersistFailures exposes the persistence failure counter.
func InsightPersistFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return insightPersistFailures
}
