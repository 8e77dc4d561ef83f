package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jzy/redis-data/v1/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, redis.ModeStandalone, cfg.Mode)
	assert.Equal(t, []string{redis.DefaultAddr}, cfg.Redis.Addrs)
	assert.Equal(t, "json", cfg.Codec)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, `
mode: cluster
codec: msgpack
cluster:
  addrs: ["192.168.1.136:7000", "192.168.1.137:7000"]
  key_prefix: tenant-a_
  max_redirects: 5
  pool:
    max_total: 50
    max_wait: 1500ms
    test_on_borrow: true
logger:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, redis.ModeCluster, cfg.Mode)
	assert.Equal(t, "msgpack", cfg.Codec)
	assert.Equal(t, []string{"192.168.1.136:7000", "192.168.1.137:7000"}, cfg.Cluster.Addrs)
	assert.Equal(t, "tenant-a_", cfg.Cluster.KeyPrefix)
	assert.Equal(t, 5, cfg.Cluster.MaxRedirects)
	assert.Equal(t, 50, cfg.Cluster.Pool.MaxTotal)
	assert.Equal(t, 1500*time.Millisecond, cfg.Cluster.Pool.MaxWait)
	assert.True(t, cfg.Cluster.Pool.TestOnBorrow)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, `
redis:
  addrs: ["file:6379"]
  key_prefix: from-file_
`)
	t.Setenv("REDIS_ADDRS", "env-a:6379,env-b:6379")
	t.Setenv("REDIS_POOL_SOCKET_TIMEOUT", "5s")
	t.Setenv("ZAP_LOGGER_LEVEL", "warning")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"env-a:6379", "env-b:6379"}, cfg.Redis.Addrs)
	assert.Equal(t, "from-file_", cfg.Redis.KeyPrefix)
	assert.Equal(t, 5*time.Second, cfg.Redis.Pool.SocketTimeout)
	assert.Equal(t, "warning", cfg.Logger.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "mode: [unterminated"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "mode: sharded"))
	assert.ErrorIs(t, err, ErrUnknownMode)

	t.Setenv("REDIS_CODEC", "gob")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrUnknownCodec)
}

func TestNewRedisClient_ByMode(t *testing.T) {
	cfg := Default()
	cfg.Redis.KeyPrefix = "s_"

	client, err := cfg.NewRedisClient(nil)
	require.NoError(t, err)
	assert.Equal(t, redis.ModeStandalone, client.Mode())
	assert.Equal(t, "s_", client.KeyPrefix())

	cfg.Mode = redis.ModeCluster
	_, err = cfg.NewRedisClient(nil)
	assert.ErrorIs(t, err, redis.ErrNoAddress)

	cfg.Cluster.Addrs = []string{"localhost:7000"}
	client, err = cfg.NewRedisClient(nil)
	require.NoError(t, err)
	assert.Equal(t, redis.ModeCluster, client.Mode())

	cfg.Mode = "bogus"
	_, err = cfg.NewRedisClient(nil)
	assert.ErrorIs(t, err, ErrUnknownMode)
}
