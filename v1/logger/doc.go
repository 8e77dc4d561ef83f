// Package logger provides structured logging on top of go.uber.org/zap.
//
// LoggerClient writes JSON entries to stderr with an ISO8601 "timestamp", a
// capitalized level and the process id and service name attached to every
// entry. Every method takes a message, an optional error and any number of
// field maps:
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         logger.Info,
//		ServiceName:   "redis-data",
//		EnableTracing: true,
//	})
//
//	log.Info("Redis client initialized", nil, map[string]interface{}{
//		"mode":   "cluster",
//		"prefix": "tenant-a_",
//	})
//
// # Tracing Integration
//
// With EnableTracing set, the *WithContext methods add the OpenTelemetry
// trace_id and span_id of the span carried by ctx:
//
//	log.ErrorWithContext(ctx, "Batch sync failed", err, nil)
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug          # debug, info, warning, error
//	LOGGER_SERVICE_NAME=redis-data
//	LOGGER_ENABLE_TRACING=true
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule, // provides *LoggerClient and logger.Logger
//		fx.Provide(func() logger.Config { return cfg.Logger }),
//	)
//
// *LoggerClient satisfies the narrow Logger interfaces declared by the redis
// and tracer packages, so it can be handed to them directly.
//
// All methods are safe for concurrent use by multiple goroutines.
package logger
