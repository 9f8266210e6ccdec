// Package metrics exposes Prometheus collectors for the snapshot pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector aggregates refresh telemetry on a dedicated registry.
type Collector struct {
	registry *prometheus.Registry

	runsTotal    *prometheus.CounterVec
	runDuration  prometheus.Histogram
	entriesTotal *prometheus.CounterVec
	lastSuccess  prometheus.Gauge
}

// NewCollector creates a pipeline metrics collector.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "marketsnap"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "runs_total",
			Help:      "Total number of snapshot refresh runs",
		},
		[]string{"result"},
	)

	c.runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "run_duration_seconds",
			Help:      "Time taken by a full refresh run",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3.5m
		},
	)

	c.entriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "entries_total",
			Help:      "Snapshot entries produced, by status",
		},
		[]string{"status"},
	)

	c.lastSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful refresh",
		},
	)

	c.registry.MustRegister(
		c.runsTotal,
		c.runDuration,
		c.entriesTotal,
		c.lastSuccess,
	)
	return c
}

// Registry returns the Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry over HTTP.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordRun records one refresh run.
func (c *Collector) RecordRun(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	c.runsTotal.WithLabelValues(result).Inc()
	c.runDuration.Observe(duration.Seconds())
	if err == nil {
		c.lastSuccess.SetToCurrentTime()
	}
}

// RecordEntry tallies one produced snapshot entry. Callers must pass a
// bounded status label, not a raw error string.
func (c *Collector) RecordEntry(status string) {
	c.entriesTotal.WithLabelValues(status).Inc()
}
