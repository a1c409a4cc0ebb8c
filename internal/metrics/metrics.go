// Package metrics exposes engine counters and timings as Prometheus metrics
// on a private registry. A nil *Collector is a valid no-op collector.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "qadash"

// Filter recompute outcomes.
const (
	OutcomeApplied = "applied"
	OutcomeCleared = "cleared"
	OutcomeFailed  = "failed"
)

// Collector owns the dashboard's metrics and the registry they live on.
type Collector struct {
	registry *prometheus.Registry

	recomputes      *prometheus.CounterVec
	recomputeTime   prometheus.Histogram
	statusMessages  *prometheus.CounterVec
	axisRebinds     prometheus.Counter
	loadedRows      *prometheus.GaugeVec
	selectedMetrics *prometheus.GaugeVec
}

// New creates a collector with every metric registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		recomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_recomputes_total",
			Help:      "Per-category filter recomputations by outcome.",
		}, []string{"category", "outcome"}),
		recomputeTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_recompute_seconds",
			Help:      "Duration of one full predicate recompile loop.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		statusMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_messages_total",
			Help:      "Status messages pushed, by severity.",
		}, []string{"severity"}),
		axisRebinds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "axis_rebinds_total",
			Help:      "Axis handles rewritten to a canonical shared range.",
		}),
		loadedRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loaded_rows",
			Help:      "Rows in each category's raw object table.",
		}, []string{"category"}),
		selectedMetrics: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selected_metrics",
			Help:      "Metrics currently selected per category.",
		}, []string{"category"}),
	}
	c.registry.MustRegister(
		c.recomputes,
		c.recomputeTime,
		c.statusMessages,
		c.axisRebinds,
		c.loadedRows,
		c.selectedMetrics,
	)
	return c
}

// Registry returns the private registry, for tests and custom exposition.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Recompute counts one category's filter recompute.
func (c *Collector) Recompute(category, outcome string) {
	if c == nil {
		return
	}
	c.recomputes.WithLabelValues(category, outcome).Inc()
}

// ObserveRecompute records the duration of a recompile loop.
func (c *Collector) ObserveRecompute(d time.Duration) {
	if c == nil {
		return
	}
	c.recomputeTime.Observe(d.Seconds())
}

// StatusMessage counts a pushed status message.
func (c *Collector) StatusMessage(severity string) {
	if c == nil {
		return
	}
	c.statusMessages.WithLabelValues(severity).Inc()
}

// AxisRebinds adds n rebinds from one link pass.
func (c *Collector) AxisRebinds(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.axisRebinds.Add(float64(n))
}

// LoadedRows sets the raw row count of a category.
func (c *Collector) LoadedRows(category string, rows int) {
	if c == nil {
		return
	}
	c.loadedRows.WithLabelValues(category).Set(float64(rows))
}

// SelectedMetrics sets the selection size of a category.
func (c *Collector) SelectedMetrics(category string, n int) {
	if c == nil {
		return
	}
	c.selectedMetrics.WithLabelValues(category).Set(float64(n))
}
