package metrics

import (
	"errors"
	"time"

	"github.com/jzy/redis-data/v1/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// Operation outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusMiss    = "miss"
	StatusError   = "error"
)

// ObserveOperation implements observability.Observer. A missing key counts as
// a miss, not an error.
func (m *Metrics) ObserveOperation(ctx observability.OperationContext) {
	status := StatusSuccess
	switch {
	case errors.Is(ctx.Error, redis.Nil):
		status = StatusMiss
	case ctx.Error != nil:
		status = StatusError
	}

	m.IncrementOperations(ctx.Component, ctx.Operation, status)
	m.RecordOperationDuration(ctx.Component, ctx.Operation, ctx.Duration)
}

// IncrementOperations counts one operation with the given outcome.
// Example: metrics.IncrementOperations("redis", "get", metrics.StatusSuccess)
func (m *Metrics) IncrementOperations(component, operation, status string) {
	m.operationsTotal.WithLabelValues(component, operation, status).Inc()
}

// RecordOperationDuration records the duration of one operation.
func (m *Metrics) RecordOperationDuration(component, operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(component, operation).Observe(duration.Seconds())
}

// MustRegister registers additional collectors with the service label applied.
func (m *Metrics) MustRegister(cs ...prometheus.Collector) {
	m.registerer.MustRegister(cs...)
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(m.namespace, name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(gauge)
	return gauge
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}

func createGaugeVec(namespace, name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}
