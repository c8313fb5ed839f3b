// Package metrics provides Prometheus metrics export for the planning pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusExporter exports planner and submission metrics in Prometheus format.
type PrometheusExporter struct {
	registry *prometheus.Registry

	// Planning metrics
	planRequests *prometheus.CounterVec
	planLatency  *prometheus.HistogramVec

	// LLM metrics
	llmTokensUsed *prometheus.CounterVec
	llmLatency    prometheus.Histogram

	// Submission metrics
	submissions *prometheus.CounterVec
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(cfg Config) *PrometheusExporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &PrometheusExporter{registry: registry}

	e.planRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cadsense",
			Subsystem: "planner",
			Name:      "requests_total",
			Help:      "Total number of planning requests by source and generative outcome",
		},
		[]string{"source", "outcome"},
	)

	e.planLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cadsense",
			Subsystem: "planner",
			Name:      "latency_seconds",
			Help:      "Planning latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"source"},
	)

	e.llmTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cadsense",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"token_type"},
	)

	e.llmLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cadsense",
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "LLM request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
	)

	e.submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cadsense",
			Subsystem: "autodesk",
			Name:      "submissions_total",
			Help:      "Design Automation submissions by status (sent, preview, error)",
		},
		[]string{"status"},
	)

	registry.MustRegister(
		e.planRequests,
		e.planLatency,
		e.llmTokensUsed,
		e.llmLatency,
		e.submissions,
	)

	return e
}

// RecordPlan records one planning request.
func (e *PrometheusExporter) RecordPlan(source, outcome string, latency time.Duration) {
	e.planRequests.WithLabelValues(source, outcome).Inc()
	e.planLatency.WithLabelValues(source).Observe(latency.Seconds())
}

// RecordLLMCall records token usage and latency of one LLM call.
func (e *PrometheusExporter) RecordLLMCall(promptTokens, completionTokens int, latency time.Duration) {
	e.llmTokensUsed.WithLabelValues("prompt").Add(float64(promptTokens))
	e.llmTokensUsed.WithLabelValues("completion").Add(float64(completionTokens))
	e.llmLatency.Observe(latency.Seconds())
}

// RecordSubmission records the outcome of a send request.
func (e *PrometheusExporter) RecordSubmission(status string) {
	e.submissions.WithLabelValues(status).Inc()
}

// Handler returns the HTTP handler for Prometheus metrics.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// ServeHTTP implements http.Handler for the metrics endpoint.
func (e *PrometheusExporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.Handler().ServeHTTP(w, r)
}

// GetRegistry returns the Prometheus registry.
func (e *PrometheusExporter) GetRegistry() *prometheus.Registry {
	return e.registry
}
