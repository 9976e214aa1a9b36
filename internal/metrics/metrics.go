// Package metrics records conversion run metrics and exports them as a
// Prometheus textfile for node_exporter's textfile collector.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ErrNoPath is returned by WriteTextfile without a target path.
var ErrNoPath = errors.New("metrics textfile path is empty")

// Recorder holds the run metrics on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	eventsBuilt    prometheus.Counter
	recordsSkipped prometheus.Counter
	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
	lastSuccess    prometheus.Gauge
}

// Option configures a Recorder.
type Option func(*options)

type options struct {
	namespace string
}

// WithNamespace sets the metric namespace (default "easyics").
func WithNamespace(ns string) Option {
	return func(o *options) {
		if ns != "" {
			o.namespace = ns
		}
	}
}

// New creates a Recorder with its own registry.
func New(opts ...Option) *Recorder {
	o := options{namespace: "easyics"}
	for _, opt := range opts {
		opt(&o)
	}

	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Recorder{
		registry: reg,
		eventsBuilt: auto.NewCounter(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "events_built_total",
			Help:      "Events written to calendar files.",
		}),
		recordsSkipped: auto.NewCounter(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "records_skipped_total",
			Help:      "Blank input lines ignored during assembly.",
		}),
		runs: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "runs_total",
			Help:      "Conversion runs by result.",
		}, []string{"result"}),
		runDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a conversion run.",
			Buckets:   prometheus.DefBuckets,
		}),
		lastSuccess: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: o.namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Success records a completed run.
func (r *Recorder) Success(at time.Time, took time.Duration, events, skipped int) {
	r.runs.WithLabelValues(ResultSuccess).Inc()
	r.runDuration.Observe(took.Seconds())
	r.eventsBuilt.Add(float64(events))
	r.recordsSkipped.Add(float64(skipped))
	r.lastSuccess.Set(float64(at.Unix()))
}

// Failure records an aborted run.
func (r *Recorder) Failure(took time.Duration) {
	r.runs.WithLabelValues(ResultFailure).Inc()
	r.runDuration.Observe(took.Seconds())
}

// WriteTextfile writes the current values in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return ErrNoPath
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
