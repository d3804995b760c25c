package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	registry *prometheus.Registry

	// Service operations
	Operations *prometheus.CounterVec

	// Store metrics
	Records *prometheus.GaugeVec

	// Persistence metrics
	PersistenceOperations *prometheus.CounterVec
	PersistenceLatency    *prometheus.HistogramVec
}

// New creates all application metrics on a private registry. Nothing is
// exported over the network; Summary flattens the counters for logging.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of record operations",
		}, []string{"operation", "status"}),
		Records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Current number of records per collection",
		}, []string{"entity"}),
		PersistenceOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_operations_total",
			Help:      "Total number of save/load operations",
		}, []string{"operation", "status"}),
		PersistenceLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persistence_duration_seconds",
			Help:      "Duration of save/load operations",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
	}

	m.registry.MustRegister(m.Operations, m.Records, m.PersistenceOperations, m.PersistenceLatency)
	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveOperation counts a service operation by outcome. Safe on a nil receiver.
func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, status(err)).Inc()
}

// ObservePersistence records a save/load outcome and its latency.
func (m *Metrics) ObservePersistence(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.PersistenceOperations.WithLabelValues(operation, status(err)).Inc()
	m.PersistenceLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// SetRecords publishes the current collection sizes.
func (m *Metrics) SetRecords(patients, doctors, diseases, appointments int) {
	if m == nil {
		return
	}
	m.Records.WithLabelValues("patient").Set(float64(patients))
	m.Records.WithLabelValues("doctor").Set(float64(doctors))
	m.Records.WithLabelValues("disease").Set(float64(diseases))
	m.Records.WithLabelValues("appointment").Set(float64(appointments))
}

// Summary flattens counter and gauge samples into "name{label=value,...}" keys.
func (m *Metrics) Summary() (map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			key := mf.GetName()
			if labels := metric.GetLabel(); len(labels) > 0 {
				key += "{"
				for i, lp := range labels {
					if i > 0 {
						key += ","
					}
					key += lp.GetName() + "=" + lp.GetValue()
				}
				key += "}"
			}
			switch {
			case metric.GetCounter() != nil:
				out[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[key] = metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				out[key+"_count"] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	return out, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
