package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveOperation(t *testing.T) {
	m := New("hms")

	m.ObserveOperation("patient.create", nil)
	m.ObserveOperation("patient.create", nil)
	m.ObserveOperation("patient.create", errors.New("full"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("patient.create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("patient.create", "error")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("patient.create", nil)
		m.ObservePersistence("save", time.Now(), nil)
		m.SetRecords(1, 2, 3, 4)
	})
}

func TestSummary(t *testing.T) {
	m := New("hms")
	m.SetRecords(3, 1, 2, 0)
	m.ObservePersistence("save", time.Now(), nil)

	summary, err := m.Summary()
	require.NoError(t, err)

	assert.Equal(t, 3.0, summary["hms_records{entity=patient}"])
	assert.Equal(t, 0.0, summary["hms_records{entity=appointment}"])
	assert.Equal(t, 1.0, summary["hms_persistence_operations_total{operation=save,status=success}"])
	assert.Equal(t, 1.0, summary["hms_persistence_duration_seconds{operation=save}_count"])
}

func TestRegistryHoldsAllCollectors(t *testing.T) {
	m := New("hms")
	m.ObserveOperation("doctor.create", nil)
	m.SetRecords(0, 1, 0, 0)

	n, err := testutil.GatherAndCount(m.Registry())
	require.NoError(t, err)
	// one operation series plus four record gauges
	assert.Equal(t, 5, n)
}
