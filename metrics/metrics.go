// Package metrics exports collapse runs as Prometheus metrics.
//
// Recorder implements collapse.Recorder. It registers its collectors on the
// Registerer passed to New, so tests and the CLI can use a private
// prometheus.Registry instead of the process-wide default.
//
// Thread Safety: Recorder is safe for concurrent use, including from
// collapse.Batch workers.
package metrics

import (
	"fmt"

	"github.com/katalvlaran/wavecollapse/wave"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "wavecollapse"
	subsystem = "collapse"
)

// stepBuckets covers grids from a handful of cells up to ~250k cells.
var stepBuckets = prometheus.ExponentialBuckets(1, 4, 10)

// Recorder counts attempts, their outcomes and step counts, and resamples.
type Recorder struct {
	started   prometheus.Counter
	finished  *prometheus.CounterVec
	steps     *prometheus.HistogramVec
	resamples prometheus.Counter
}

// New creates a Recorder and registers its collectors on reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
//
// Errors: the registration error when a collector of the same name is
// already registered on reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "attempts_started_total",
			Help:      "Total collapse attempts started",
		}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "attempts_total",
			Help:      "Total collapse attempts by outcome",
		}, []string{"outcome"}),
		steps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "attempt_steps",
			Help:      "Committed propagation steps per attempt",
			Buckets:   stepBuckets,
		}, []string{"outcome"}),
		resamples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "resamples_total",
			Help:      "Total observations redrawn in backtrack mode",
		}),
	}
	for _, c := range []prometheus.Collector{r.started, r.finished, r.steps, r.resamples} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register collector: %w", err)
		}
	}

	return r, nil
}

// AttemptStarted implements collapse.Recorder.
func (r *Recorder) AttemptStarted() { r.started.Inc() }

// AttemptFinished implements collapse.Recorder.
func (r *Recorder) AttemptFinished(outcome wave.Outcome, steps int) {
	label := outcome.String()
	r.finished.WithLabelValues(label).Inc()
	r.steps.WithLabelValues(label).Observe(float64(steps))
}

// Resampled implements collapse.Recorder.
func (r *Recorder) Resampled() { r.resamples.Inc() }

// WriteTextfile writes every metric gathered by g to path in the Prometheus
// text exposition format, for the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}

	return nil
}
