// Package metrics provides the Prometheus implementation of the
// MetricsCollector port.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arlo-hs/lingopipe/internal/ports"
)

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements MetricsCollector over the default Prometheus
// registry. Metric families are registered once at construction; label sets
// are normalized so a missing label never panics a vector lookup.
type PrometheusMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	tokensTotal     *prometheus.CounterVec
	operationTimes  *prometheus.HistogramVec
}

// NewPrometheusMetrics registers and returns the collector.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "Latency of individual LLM provider requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "model", "status"},
		),
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Total LLM provider requests by outcome.",
			},
			[]string{"provider", "model", "status"},
		),
		tokensTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Total tokens exchanged with LLM providers.",
			},
			[]string{"provider", "model", "status", "token_type"},
		),
		operationTimes: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "translation_operation_duration_seconds",
				Help:    "Latency of translation service operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordLatency records the duration of a named service operation.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	pm.operationTimes.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter increments one of the known counter families.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	switch metric {
	case "llm_requests_total":
		pm.requestsTotal.With(normalize(labels, "provider", "model", "status")).Add(value)
	case "llm_tokens_total":
		pm.tokensTotal.With(normalize(labels, "provider", "model", "status", "token_type")).Add(value)
	}
}

// RecordHistogram observes a value in one of the known histogram families.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	switch metric {
	case "llm_request_duration_seconds":
		pm.requestDuration.With(normalize(labels, "provider", "model", "status")).Observe(value)
	}
}

// normalize builds a complete label set, substituting "unknown" for any
// label the caller did not supply.
func normalize(labels map[string]string, keys ...string) prometheus.Labels {
	out := make(prometheus.Labels, len(keys))
	for _, k := range keys {
		if v, ok := labels[k]; ok && v != "" {
			out[k] = v
		} else {
			out[k] = "unknown"
		}
	}
	return out
}
