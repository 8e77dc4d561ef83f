package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jzy/redis-data/v1/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestFXModule_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	obs := &TestObserver{}
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	var (
		concrete *RedisClient
		client   Client
	)
	app := fxtest.New(t,
		FXModule,
		fx.Provide(
			func() Config { return Config{Addrs: []string{mr.Addr()}, KeyPrefix: "fx_", MaxRetries: -1} },
			func() observability.Observer { return obs },
			func() trace.TracerProvider { return tp },
		),
		fx.Populate(&concrete, &client),
	)

	app.RequireStart()
	assert.NotNil(t, concrete.PoolStats(), "pool is created on start")

	require.NoError(t, client.SetString(context.Background(), "k", "v"))
	assert.True(t, mr.Exists("fx_k"))
	assert.NotEmpty(t, obs.GetOperations())
	assert.NotEmpty(t, spansNamed(recorder.Ended(), "redis.set"))

	app.RequireStop()
	_, err := concrete.Client(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestClusterFXModule_FailsWithoutAddress(t *testing.T) {
	app := fx.New(
		ClusterFXModule,
		fx.Provide(func() ClusterConfig { return ClusterConfig{} }),
		fx.NopLogger,
	)
	require.Error(t, app.Err())
	assert.Contains(t, app.Err().Error(), ErrNoAddress.Error())
}
