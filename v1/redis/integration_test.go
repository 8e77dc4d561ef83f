package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

// TestRedisBasicOperations verifies the prefixed operations against a real server,
// reached through the fx module after the first configured address fails.
func TestRedisBasicOperations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	addr, containerInstance := initializeRedis(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	deadPort, err := getFreePort()
	require.NoError(t, err)

	var client *RedisClient

	cfg := Config{
		Addrs:     []string{net.JoinHostPort("127.0.0.1", deadPort), addr},
		KeyPrefix: "it_",
		Pool:      PoolConfig{ConnectTimeout: time.Second, TestOnBorrow: true},
	}

	app := fx.New(
		FXModule,
		fx.Provide(
			func() Config { return cfg },
		),
		fx.Populate(&client),
		fx.NopLogger,
	)

	require.NoError(t, app.Start(ctx))
	defer app.Stop(ctx)

	raw, err := client.Client(ctx)
	require.NoError(t, err)

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, client.SetString(ctx, "test-key", "test-value"))

		value, err := client.GetString(ctx, "test-key")
		require.NoError(t, err)
		assert.Equal(t, "test-value", value)

		stored, err := raw.Get(ctx, "it_test-key").Result()
		require.NoError(t, err)
		assert.Equal(t, "test-value", stored)
	})

	t.Run("Del", func(t *testing.T) {
		require.NoError(t, client.SetString(ctx, "delete-a", "value"))
		require.NoError(t, client.SetString(ctx, "delete-b", "value"))

		deleted, err := client.Del(ctx, "delete-a", "delete-b", "delete-missing")
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		_, err = client.Get(ctx, "delete-a")
		assert.True(t, IsNilError(err))
	})

	t.Run("Type", func(t *testing.T) {
		require.NoError(t, raw.LPush(ctx, "it_list", "a").Err())

		typ, err := client.Type(ctx, "list")
		require.NoError(t, err)
		assert.Equal(t, "list", typ)
	})
}

// TestRedisTTL verifies expiry handling with millisecond precision.
func TestRedisTTL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	addr, containerInstance := initializeRedis(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	client, err := NewClient(Config{Addrs: []string{addr}, KeyPrefix: "ttl_"})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.SetStringEX(ctx, "ex", 60, "value"))
	ttl, err := client.TTL(ctx, "ex")
	require.NoError(t, err)
	assert.InDelta(t, 60*time.Second, ttl, float64(2*time.Second))

	require.NoError(t, client.Set(ctx, "short", []byte("value"), 300*time.Millisecond))
	assert.Eventually(t, func() bool {
		_, err := client.Get(ctx, "short")
		return IsNilError(err)
	}, 3*time.Second, 50*time.Millisecond)

	ok, err := client.Persist(ctx, "ex")
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err = client.TTL(ctx, "ex")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)
}

// TestRedisBatch writes and reads back ten thousand keys through one batch.
func TestRedisBatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	addr, containerInstance := initializeRedis(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	client, err := NewClient(Config{Addrs: []string{addr}, KeyPrefix: "batch_"})
	require.NoError(t, err)
	defer client.Close()

	const n = 10000

	write := client.Batch()
	for i := 0; i < n; i++ {
		write.Set(ctx, strconv.Itoa(i), strconv.Itoa(i), time.Minute)
	}
	require.NoError(t, write.Sync(ctx))
	require.NoError(t, write.Close())

	read := client.Batch()
	defer read.Close()
	for i := 0; i < n; i++ {
		read.Get(ctx, strconv.Itoa(i))
	}
	results, err := read.SyncAndReturnAll(ctx)
	require.NoError(t, err)
	require.Len(t, results, n)
	for i, v := range results {
		assert.Equal(t, strconv.Itoa(i), v)
	}
}

// TestRedisConcurrency verifies that exactly one of many concurrent SetNX calls wins.
func TestRedisConcurrency(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	addr, containerInstance := initializeRedis(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	client, err := NewClient(Config{Addrs: []string{addr}, KeyPrefix: "lock_"})
	require.NoError(t, err)
	defer client.Close()

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := client.SetNXString(ctx, "owner", strconv.Itoa(i), 10*time.Second)
			if assert.NoError(t, err) && ok {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	ttl, err := client.TTL(ctx, "owner")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func initializeRedis(ctx context.Context, t *testing.T) (string, testcontainers.Container) {
	hostPort, err := getFreePort()
	require.NoError(t, err)

	containerInstance, err := createRedisContainer(ctx, hostPort)
	require.NoError(t, err)

	port, err := containerInstance.MappedPort(ctx, "6379")
	require.NoError(t, err)

	host, err := containerInstance.Host(ctx)
	require.NoError(t, err)

	addr := net.JoinHostPort(host, port.Port())
	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 30*time.Second, 500*time.Millisecond, "Redis port not ready")

	return addr, containerInstance
}

func createRedisContainer(ctx context.Context, hostPort string) (testcontainers.Container, error) {
	portBindings := nat.PortMap{
		"6379/tcp": []nat.PortBinding{{HostPort: hostPort}},
	}

	req := testcontainers.ContainerRequest{
		Image: "redis:7-alpine",
		ExposedPorts: []string{
			"6379/tcp",
		},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("6379/tcp").WithStartupTimeout(30*time.Second),
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second),
		),
	}

	var containerInstance testcontainers.Container
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		containerInstance, lastErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if lastErr == nil {
			return containerInstance, nil
		}

		if strings.Contains(lastErr.Error(), "docker.sock") {
			time.Sleep(time.Duration(attempt+1) * time.Second)
			continue
		}

		break
	}

	return nil, fmt.Errorf("failed to start Redis container after 3 attempts: %w", lastErr)
}

func getFreePort() (string, error) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		return "", err
	}
	defer l.Close()
	addr := l.Addr().(*net.TCPAddr)
	return strconv.Itoa(addr.Port), nil
}
