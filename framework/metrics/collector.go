// Package metrics exports bean resolution metrics to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/go-beans/framework/beans"
)

// Collector records resolution outcomes on its own registry, so several
// containers in one process do not collide.
type Collector struct {
	registry *prometheus.Registry

	Resolutions *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

var _ beans.ResolveObserver = (*Collector)(nil)

// NewCollector creates a collector whose metric names are prefixed with namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	resolutions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Bean resolutions by outcome",
		},
		[]string{"bean", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolution_duration_seconds",
			Help:      "Time spent resolving beans",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"outcome"},
	)
	registry.MustRegister(resolutions, duration)

	return &Collector{
		registry:    registry,
		Resolutions: resolutions,
		Duration:    duration,
	}
}

// ObserveResolve implements beans.ResolveObserver.
func (c *Collector) ObserveResolve(name string, outcome beans.Outcome, elapsed time.Duration) {
	c.Resolutions.WithLabelValues(name, outcome.String()).Inc()
	c.Duration.WithLabelValues(outcome.String()).Observe(elapsed.Seconds())
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
