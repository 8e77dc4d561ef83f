package redis

import (
	"context"
	"errors"
	"net"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jzy/redis-data/v1/redis"

// TracingHook is a go-redis hook that opens a client span for every command and
// every pipeline. Missing keys are not recorded as span errors.
type TracingHook struct {
	tracer trace.Tracer
}

var _ redis.Hook = (*TracingHook)(nil)

// NewTracingHook creates a TracingHook. A nil provider falls back to the global
// otel TracerProvider.
//
// Example:
//
//	client.WithHook(redis.NewTracingHook(tracerClient.Provider()))
func NewTracingHook(provider trace.TracerProvider) *TracingHook {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &TracingHook{tracer: provider.Tracer(instrumentationName)}
}

func (h *TracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *TracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, span := h.tracer.Start(ctx, "redis."+cmd.Name(),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("db.system", "redis"),
				attribute.String("db.operation", cmd.Name()),
			),
		)
		defer span.End()

		err := next(ctx, cmd)
		recordSpanError(span, err)
		return err
	}
}

func (h *TracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		ctx, span := h.tracer.Start(ctx, "redis.pipeline",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("db.system", "redis"),
				attribute.Int("db.redis.num_cmd", len(cmds)),
			),
		)
		defer span.End()

		err := next(ctx, cmds)
		recordSpanError(span, err)
		return err
	}
}

func recordSpanError(span trace.Span, err error) {
	if err == nil || errors.Is(err, redis.Nil) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// LoggingHook is a go-redis hook that logs failed dials, commands and pipelines.
// Missing keys are not failures.
type LoggingHook struct {
	logger Logger
}

var _ redis.Hook = (*LoggingHook)(nil)

// NewLoggingHook creates a LoggingHook writing to logger.
func NewLoggingHook(logger Logger) *LoggingHook {
	return &LoggingHook{logger: logger}
}

func (h *LoggingHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		cn, err := next(ctx, network, addr)
		if err != nil && h.logger != nil {
			h.logger.Warn("Failed to dial Redis", err, map[string]interface{}{
				"network": network,
				"addr":    addr,
			})
		}
		return cn, err
	}
}

func (h *LoggingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) && h.logger != nil {
			h.logger.Error("Redis command failed", err, map[string]interface{}{
				"command": cmd.Name(),
			})
		}
		return err
	}
}

func (h *LoggingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if h.logger == nil {
			return err
		}

		failed := 0
		var first error
		for _, cmd := range cmds {
			if cerr := cmd.Err(); cerr != nil && !errors.Is(cerr, redis.Nil) {
				if first == nil {
					first = cerr
				}
				failed++
			}
		}
		if failed > 0 {
			h.logger.Error("Redis pipeline failed", first, map[string]interface{}{
				"failed":   failed,
				"commands": len(cmds),
			})
		}
		return err
	}
}
