package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return &Tracer{tracer: tp}, recorder
}

func TestNewClient_WithoutExport(t *testing.T) {
	tr, err := NewClient(Config{ServiceName: "redis-data", AppEnv: "test"}, nil)
	require.NoError(t, err)
	require.NotNil(t, tr.Provider())
	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestTracer_StartSpanAndRecordError(t *testing.T) {
	tr, recorder := newRecordingTracer(t)

	_, span := tr.StartSpan(context.Background(), "bench.write")
	tr.SetAttributes(span, map[string]interface{}{
		"keys":     10000,
		"pipeline": true,
		"prefix":   "bench_",
		"ratio":    0.5,
		"other":    []string{"a"},
	})
	tr.RecordErrorOnSpan(span, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "bench.write", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.Int("keys", 10000))
	assert.Contains(t, ended[0].Attributes(), attribute.Bool("pipeline", true))
	assert.Contains(t, ended[0].Attributes(), attribute.String("other", "[a]"))
}

func TestTracer_RecordErrorOnSpanIgnoresNil(t *testing.T) {
	tr, recorder := newRecordingTracer(t)

	_, span := tr.StartSpan(context.Background(), "bench.read")
	assert.NotPanics(t, func() { tr.RecordErrorOnSpan(span, nil) })
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Empty(t, ended[0].Events())
}

func TestShutdown_NilSafe(t *testing.T) {
	var tr *Tracer
	assert.NoError(t, tr.Shutdown(context.Background()))
}
