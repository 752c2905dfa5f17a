// Package metrics exposes Prometheus metrics about content validation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/woozymasta/tour-content/internal/content"
)

// Metrics holds the validation collectors and the registry they are
// registered in. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	runs         *prometheus.CounterVec
	entries      *prometheus.GaugeVec
	files        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	lastSuccess  prometheus.Gauge
}

// New creates the collectors and registers them in a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "content_validation_runs_total",
				Help: "Total number of validation runs by result (ok, failed, error).",
			},
			[]string{"result"},
		),
		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "content_collection_entries",
				Help: "Number of entries per collection and status in the latest run.",
			},
			[]string{"collection", "status"},
		),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "content_files_validated_total",
				Help: "Total number of validated content files by collection and status.",
			},
			[]string{"collection", "status"},
		),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "content_validation_duration_seconds",
			Help:    "Duration of full validation runs.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "content_validation_last_success_timestamp_seconds",
			Help: "Unix time of the latest run without failures.",
		}),
	}

	m.registry.MustRegister(m.runs, m.entries, m.files, m.loadDuration, m.lastSuccess)

	return m
}

// Gatherer returns the registry backing the collectors.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRun records the outcome of a validation run. err is a scan error
// that prevented the run from completing; res may be partial in that case.
func (m *Metrics) ObserveRun(res *content.Result, err error, took time.Duration) {
	if m == nil {
		return
	}

	m.loadDuration.Observe(took.Seconds())

	switch {
	case err != nil:
		m.runs.WithLabelValues("error").Inc()
	case res != nil && !res.OK():
		m.runs.WithLabelValues("failed").Inc()
	default:
		m.runs.WithLabelValues("ok").Inc()
		m.lastSuccess.SetToCurrentTime()
	}

	if res == nil {
		return
	}

	for name, stats := range res.Stats {
		m.entries.WithLabelValues(name, "valid").Set(float64(stats.Valid))
		m.entries.WithLabelValues(name, "failed").Set(float64(stats.Failed))
		m.files.WithLabelValues(name, "valid").Add(float64(stats.Valid))
		m.files.WithLabelValues(name, "failed").Add(float64(stats.Failed))
	}
}
