package metrics

import (
	"time"

	"github.com/jzy/redis-data/v1/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector provides an interface for collecting and exposing application metrics.
//
// This interface is implemented by the concrete *Metrics type.
type MetricsCollector interface {
	observability.Observer

	// IncrementOperations counts one operation with the given outcome.
	IncrementOperations(component, operation, status string)

	// RecordOperationDuration records the duration of one operation.
	RecordOperationDuration(component, operation string, duration time.Duration)

	// MustRegister registers additional collectors, such as a redis PoolCollector.
	MustRegister(cs ...prometheus.Collector)

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}

var _ MetricsCollector = (*Metrics)(nil)
