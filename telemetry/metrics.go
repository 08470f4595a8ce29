package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/astarviz/astar"
)

// ErrRegistration indicates a collector could not be registered.
var ErrRegistration = errors.New("telemetry: metric registration failed")

const namespace = "astarviz"

// Metrics holds the Prometheus collectors for searches.
type Metrics struct {
	runs       *prometheus.CounterVec
	events     *prometheus.CounterVec
	expanded   prometheus.Histogram
	pathLength prometheus.Histogram
	duration   prometheus.Histogram
	inFlight   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed searches by outcome.",
		}, []string{"status"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Search events delivered to observers, by kind.",
		}, []string{"kind"}),
		expanded: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_expanded_nodes",
			Help:      "Nodes popped from the frontier per search.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		pathLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_path_length",
			Help:      "Cells on the returned path of successful searches.",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 12),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of searches, observer time included.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs_in_flight",
			Help:      "Searches currently running.",
		}),
	}
	for _, c := range []prometheus.Collector{m.runs, m.events, m.expanded, m.pathLength, m.duration, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRegistration, err)
		}
	}
	return m, nil
}

// Observer counts every event by kind and forwards it to next.
// A nil next continues after every event.
func (m *Metrics) Observer(next astar.Observer) astar.Observer {
	if next == nil {
		next = func(astar.Event) astar.Action { return astar.Continue }
	}
	if m == nil {
		return next
	}
	return func(ev astar.Event) astar.Action {
		m.events.WithLabelValues(ev.Kind.String()).Inc()
		return next(ev)
	}
}

// started marks a search as running.
func (m *Metrics) started() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

// finished records the outcome of a search begun with started. A non-nil
// err is counted under status "error".
func (m *Metrics) finished(res astar.Result, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.duration.Observe(d.Seconds())
	if err != nil {
		m.runs.WithLabelValues("error").Inc()
		return
	}
	m.runs.WithLabelValues(res.Status.String()).Inc()
	m.expanded.Observe(float64(res.Expanded))
	if res.Status == astar.Found {
		m.pathLength.Observe(float64(len(res.Path)))
	}
}
