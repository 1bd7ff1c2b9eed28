// Package metrics exposes Prometheus metrics for the compile/provision
// pipeline: compile counts by outcome, validation failures by field,
// directive counts and compile duration. Metrics are served in run mode
// only; one-shot CLI invocations do not register anything.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns all Prometheus metrics for the compile pipeline.
type Collector struct {
	registry *prometheus.Registry

	compilesTotal      *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	compileDuration    prometheus.Histogram
	directiveLines     *prometheus.GaugeVec
	fallbackActive     prometheus.Gauge
}

// NewCollector creates a collector registered against the given registry.
// A nil registry gets a fresh one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		compilesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "limen",
			Name:      "compiles_total",
			Help:      "Compile attempts by outcome (compiled, rejected).",
		}, []string{"outcome"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "limen",
			Name:      "validation_failures_total",
			Help:      "Validation failures by offending field path.",
		}, []string{"field"}),
		compileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "limen",
			Name:      "compile_duration_seconds",
			Help:      "Duration of a full merge/validate/compile pass.",
			// Compiles are in-memory; sub-millisecond to low-millisecond.
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		}),
		directiveLines: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "limen",
			Name:      "directive_lines",
			Help:      "Lines in the most recently compiled block, by block.",
		}, []string{"block"}),
		fallbackActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "limen",
			Name:      "limit_fallback_active",
			Help:      "1 when the provisioned limit file carries the restrictive fallback block.",
		}),
	}

	registry.MustRegister(
		c.compilesTotal,
		c.validationFailures,
		c.compileDuration,
		c.directiveLines,
		c.fallbackActive,
	)
	return c
}

// RecordCompile records a successful compile pass.
func (c *Collector) RecordCompile(duration time.Duration, authLines, limitLines int, fallback bool) {
	c.compilesTotal.WithLabelValues("compiled").Inc()
	c.compileDuration.Observe(duration.Seconds())
	c.directiveLines.WithLabelValues("auth").Set(float64(authLines))
	c.directiveLines.WithLabelValues("limit").Set(float64(limitLines))
	if fallback {
		c.fallbackActive.Set(1)
	} else {
		c.fallbackActive.Set(0)
	}
}

// RecordRejection records a validation failure for the given field path.
func (c *Collector) RecordRejection(field string) {
	c.compilesTotal.WithLabelValues("rejected").Inc()
	c.validationFailures.WithLabelValues(field).Inc()
}

// Handler returns an HTTP handler serving this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
