package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, reg prometheus.Registerer, store string) *Metrics {
	t.Helper()
	m, err := New(reg, store)
	require.NoError(t, err)
	return m
}

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := mustNew(t, reg, "test.db")

	m.Observe(OutcomeSuccess, 0.001)
	m.Observe(OutcomeSuccess, 0.002)
	m.Observe(OutcomeFailure, 0.003)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WritesTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WritesTotal.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.WriteDuration))
}

func TestMetrics_Dropped(t *testing.T) {
	m := mustNew(t, prometheus.NewRegistry(), "test.db")

	m.Dropped(0)
	m.Dropped(3)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.WritesTotal.WithLabelValues(OutcomeDropped)))
}

func TestMetrics_QueueDepth(t *testing.T) {
	m := mustNew(t, prometheus.NewRegistry(), "test.db")

	m.SetQueueDepth(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(m.QueueDepth))
}

func TestMetrics_Registered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := mustNew(t, reg, "test.db")
	m.Observe(OutcomeSuccess, 0.001)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "logkeep_writes_total")
	assert.Contains(t, names, "logkeep_write_duration_seconds")
	assert.Contains(t, names, "logkeep_queue_depth")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Observe(OutcomeSuccess, 1)
		m.Dropped(1)
		m.SetQueueDepth(1)
	})
}

func TestMetrics_NilRegisterer(t *testing.T) {
	m := mustNew(t, nil, "test.db")
	m.Observe(OutcomeSuccess, 0.001)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WritesTotal.WithLabelValues(OutcomeSuccess)))
}

func TestMetrics_SameStoreReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := mustNew(t, reg, "/var/lib/app/log.db")
	b := mustNew(t, reg, "/var/lib/app/log.db")

	a.Observe(OutcomeSuccess, 0.001)
	b.Observe(OutcomeSuccess, 0.001)

	assert.Same(t, a.WritesTotal, b.WritesTotal)
	assert.Equal(t, 2.0, testutil.ToFloat64(a.WritesTotal.WithLabelValues(OutcomeSuccess)))
}

func TestMetrics_DistinctStoresOnOneRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := mustNew(t, reg, "/tmp/a/log.db")
	b := mustNew(t, reg, "/tmp/b/log.db")

	a.Observe(OutcomeSuccess, 0.001)
	b.Observe(OutcomeFailure, 0.001)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.WritesTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.WritesTotal.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 0.0, testutil.ToFloat64(a.WritesTotal.WithLabelValues(OutcomeFailure)))
}

func TestMetrics_ConflictingRegistrationIsError(t *testing.T) {
	reg := prometheus.NewRegistry()
	// same name, different label dimensions
	reg.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{Name: "logkeep_queue_depth", Help: "other"}))

	_, err := New(reg, "/tmp/log.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register metrics")
}
