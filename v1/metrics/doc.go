// Package metrics provides Prometheus-based monitoring for the Redis wrappers.
//
// Metrics owns an isolated registry, applies a constant `service` label to
// everything registered through it and serves the registry on /metrics.
//
// # Operation Metrics
//
// *Metrics implements observability.Observer. Attached to a redis client it
// records every operation:
//
//	redis_operations_total{component,operation,status}      status: success, miss, error
//	redis_operation_duration_seconds{component,operation}
//
// A missing key (redis.Nil) is counted as a miss, not an error.
//
//	m := metrics.NewMetrics(metrics.Config{ServiceName: "redis-data"})
//	client.WithObserver(m)
//	m.MustRegister(redis.NewPoolCollector(client, ""))
//	go m.Server.ListenAndServe()
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule, // Optional
//		metrics.FXModule, // Provides *Metrics and MetricsCollector
//		fx.Provide(func() metrics.Config { return cfg.Metrics }),
//	)
//
// # Configuration
//
//	METRICS_ADDRESS=:9090
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true
//	METRICS_NAMESPACE=cache
//	METRICS_SERVICE_NAME=redis-data
//
// All methods are safe for concurrent use by multiple goroutines.
package metrics
