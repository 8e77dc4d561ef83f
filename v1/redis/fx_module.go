package redis

import (
	"context"

	"github.com/jzy/redis-data/v1/observability"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// FXModule is an fx.Module that provides and configures the standalone Redis client.
// It provides both *RedisClient and the Client interface.
//
// The pool is created when the application starts: the OnStart hook pings Redis,
// which runs the lazy initialization and its address fallback.
//
// Usage:
//
//	app := fx.New(
//	    redis.FXModule,
//	    logger.FXModule, // Optional: provides logger
//	    fx.Provide(func() redis.Config { return cfg.Redis }),
//	)
var FXModule = fx.Module("redis",
	fx.Provide(
		NewClientWithDI,
		asClient,
	),
	fx.Invoke(RegisterRedisLifecycle),
)

// ClusterFXModule is an fx.Module for Redis Cluster configuration.
var ClusterFXModule = fx.Module("redis-cluster",
	fx.Provide(
		NewClusterClientWithDI,
		asClient,
	),
	fx.Invoke(RegisterRedisLifecycle),
)

// FailoverFXModule is an fx.Module for Redis Sentinel (failover) configuration.
var FailoverFXModule = fx.Module("redis-failover",
	fx.Provide(
		NewFailoverClientWithDI,
		asClient,
	),
	fx.Invoke(RegisterRedisLifecycle),
)

func asClient(c *RedisClient) Client {
	return c
}

// Instrumentation groups the optional dependencies shared by all modes.
// Each one that is present is attached to the client:
//   - Logger: initialization logs, quiet-helper errors and a LoggingHook
//   - Observer: per-operation events (e.g. *metrics.Metrics)
//   - TracerProvider: a TracingHook (e.g. tracer.Provider())
type Instrumentation struct {
	fx.In

	Logger         Logger                 `optional:"true"`
	Observer       observability.Observer `optional:"true"`
	TracerProvider trace.TracerProvider   `optional:"true"`
}

func (in Instrumentation) apply(c *RedisClient) *RedisClient {
	if in.Logger != nil {
		c.WithLogger(in.Logger).WithHook(NewLoggingHook(in.Logger))
	}
	if in.Observer != nil {
		c.WithObserver(in.Observer)
	}
	if in.TracerProvider != nil {
		c.WithHook(NewTracingHook(in.TracerProvider))
	}
	return c
}

// RedisParams groups the dependencies needed to create a Redis client
type RedisParams struct {
	fx.In

	Config          Config
	Instrumentation Instrumentation
}

// NewClientWithDI creates a new Redis client using dependency injection.
//
// Example usage with fx:
//
//	app := fx.New(
//	    redis.FXModule,
//	    logger.FXModule,
//	    fx.Provide(
//	        func() redis.Config {
//	            return loadRedisConfig() // Your config loading function
//	        },
//	        func(l *logger.LoggerClient) redis.Logger { return l },
//	    ),
//	)
func NewClientWithDI(params RedisParams) (*RedisClient, error) {
	c, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}
	return params.Instrumentation.apply(c), nil
}

// ClusterRedisParams groups the dependencies needed to create a Redis Cluster client
type ClusterRedisParams struct {
	fx.In

	Config          ClusterConfig
	Instrumentation Instrumentation
}

// NewClusterClientWithDI creates a new Redis Cluster client using dependency injection.
func NewClusterClientWithDI(params ClusterRedisParams) (*RedisClient, error) {
	c, err := NewClusterClient(params.Config)
	if err != nil {
		return nil, err
	}
	return params.Instrumentation.apply(c), nil
}

// FailoverRedisParams groups the dependencies needed to create a Redis Sentinel client
type FailoverRedisParams struct {
	fx.In

	Config          FailoverConfig
	Instrumentation Instrumentation
}

// NewFailoverClientWithDI creates a new Redis Sentinel client using dependency injection.
func NewFailoverClientWithDI(params FailoverRedisParams) (*RedisClient, error) {
	c, err := NewFailoverClient(params.Config)
	if err != nil {
		return nil, err
	}
	return params.Instrumentation.apply(c), nil
}

// RedisLifecycleParams groups the dependencies needed for Redis lifecycle management
type RedisLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *RedisClient
}

// RegisterRedisLifecycle registers the Redis client with the fx lifecycle system.
//
// The function:
//  1. On application start: Pings Redis, creating the connection pool
//  2. On application stop: Closes the client and its pool
func RegisterRedisLifecycle(params RedisLifecycleParams) {
	c := params.Client
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := c.Ping(ctx); err != nil {
				c.logWarn("Failed to ping Redis on startup", err, nil)
				return err
			}
			c.logInfo("Redis client started and healthy", map[string]interface{}{
				"mode": string(c.Mode()),
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
}
