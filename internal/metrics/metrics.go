// Package metrics exposes Prometheus instrumentation for the write worker.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for WritesTotal.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeDropped = "dropped"
)

// Metrics holds the worker's collectors.
type Metrics struct {
	WritesTotal   *prometheus.CounterVec
	WriteDuration prometheus.Histogram
	QueueDepth    prometheus.Gauge
}

// New creates the collectors and registers them with registerer, labelled
// with store (the database path). Collectors already registered under
// the same name and labels are reused, so two Loggers on one database
// share series. A nil registerer yields unregistered collectors, which
// still count but are not exported anywhere.
func New(registerer prometheus.Registerer, store string) (*Metrics, error) {
	labels := prometheus.Labels{"store": store}

	writes, err := register(registerer, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "logkeep_writes_total",
			Help:        "Log write tasks by outcome (success, failure, dropped)",
			ConstLabels: labels,
		},
		[]string{"outcome"},
	))
	if err != nil {
		return nil, err
	}

	duration, err := register(registerer, prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "logkeep_write_duration_seconds",
			Help:        "Duration of the insert+evict transaction",
			Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs to ~1.6s
			ConstLabels: labels,
		},
	))
	if err != nil {
		return nil, err
	}

	depth, err := register(registerer, prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "logkeep_queue_depth",
			Help:        "Write tasks waiting for the worker",
			ConstLabels: labels,
		},
	))
	if err != nil {
		return nil, err
	}

	return &Metrics{WritesTotal: writes, WriteDuration: duration, QueueDepth: depth}, nil
}

// register adds c to r, or returns the equal collector r already holds.
func register[C prometheus.Collector](r prometheus.Registerer, c C) (C, error) {
	if r == nil {
		return c, nil
	}
	err := r.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, fmt.Errorf("register metrics: %w", err)
}

// Observe records one finished task.
func (m *Metrics) Observe(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.WritesTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeDropped {
		m.WriteDuration.Observe(seconds)
	}
}

// Dropped records n tasks discarded during shutdown.
func (m *Metrics) Dropped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.WritesTotal.WithLabelValues(OutcomeDropped).Add(float64(n))
}

// SetQueueDepth reports the current backlog.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}
