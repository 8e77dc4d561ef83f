package redis

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const testPrefix = "tenant-a_"

type ClientTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *RedisClient
	ctx       context.Context
}

func (s *ClientTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.miniRedis = mr

	client, err := NewClient(Config{
		Addrs:      []string{mr.Addr()},
		KeyPrefix:  testPrefix,
		MaxRetries: -1,
	})
	s.Require().NoError(err)
	s.client = client

	s.ctx = context.Background()
}

func (s *ClientTestSuite) TearDownTest() {
	_ = s.client.Close()
	s.miniRedis.Close()
}

func (s *ClientTestSuite) TestSetAndGetArePrefixed() {
	s.Require().NoError(s.client.SetString(s.ctx, "user:1", "alice"))

	stored, err := s.miniRedis.Get(testPrefix + "user:1")
	s.Require().NoError(err)
	s.Equal("alice", stored)
	s.False(s.miniRedis.Exists("user:1"))

	value, err := s.client.GetString(s.ctx, "user:1")
	s.Require().NoError(err)
	s.Equal("alice", value)

	raw, err := s.client.Get(s.ctx, "user:1")
	s.Require().NoError(err)
	s.Equal([]byte("alice"), raw)
}

func (s *ClientTestSuite) TestGetMissingKey() {
	_, err := s.client.GetString(s.ctx, "missing")
	s.True(IsNilError(err))
	s.ErrorIs(err, Nil)
}

func (s *ClientTestSuite) TestSetWithLiveTime() {
	s.Require().NoError(s.client.Set(s.ctx, "session", []byte("payload"), 1500*time.Millisecond))
	s.Equal(1500*time.Millisecond, s.miniRedis.TTL(testPrefix+"session"))

	s.miniRedis.FastForward(2 * time.Second)
	s.False(s.miniRedis.Exists(testPrefix + "session"))
}

func (s *ClientTestSuite) TestSetWithoutExpiry() {
	s.Require().NoError(s.client.Set(s.ctx, "forever", []byte("v"), 0))
	s.Require().NoError(s.client.Set(s.ctx, "negative", []byte("v"), -time.Second))

	s.Equal(time.Duration(0), s.miniRedis.TTL(testPrefix+"forever"))
	s.Equal(time.Duration(0), s.miniRedis.TTL(testPrefix+"negative"))
}

func (s *ClientTestSuite) TestSetStringEX() {
	s.Require().NoError(s.client.SetStringEX(s.ctx, "ex", 60, "v"))
	s.Equal(60*time.Second, s.miniRedis.TTL(testPrefix+"ex"))
}

func (s *ClientTestSuite) TestSetNX() {
	ok, err := s.client.SetNXString(s.ctx, "lock", "worker-1", 30*time.Second)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(30*time.Second, s.miniRedis.TTL(testPrefix+"lock"))

	ok, err = s.client.SetNX(s.ctx, "lock", []byte("worker-2"), 30*time.Second)
	s.Require().NoError(err)
	s.False(ok)

	stored, err := s.miniRedis.Get(testPrefix + "lock")
	s.Require().NoError(err)
	s.Equal("worker-1", stored)
}

func (s *ClientTestSuite) TestExpireTTLAndPersist() {
	s.Require().NoError(s.client.SetString(s.ctx, "k", "v"))

	ok, err := s.client.Expire(s.ctx, "k", ExpireHour)
	s.Require().NoError(err)
	s.True(ok)

	ttl, err := s.client.TTL(s.ctx, "k")
	s.Require().NoError(err)
	s.Equal(time.Hour, ttl)

	ok, err = s.client.Persist(s.ctx, "k")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(time.Duration(0), s.miniRedis.TTL(testPrefix+"k"))

	ok, err = s.client.Expire(s.ctx, "missing", time.Minute)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ClientTestSuite) TestExistsDelAndType() {
	s.Require().NoError(s.client.SetString(s.ctx, "a", "1"))
	s.Require().NoError(s.client.SetString(s.ctx, "b", "2"))
	_, err := s.miniRedis.Lpush(testPrefix+"list", "x")
	s.Require().NoError(err)

	exists, err := s.client.Exists(s.ctx, "a")
	s.Require().NoError(err)
	s.True(exists)

	typ, err := s.client.Type(s.ctx, "list")
	s.Require().NoError(err)
	s.Equal("list", typ)

	typ, err = s.client.Type(s.ctx, "missing")
	s.Require().NoError(err)
	s.Equal("none", typ)

	removed, err := s.client.Del(s.ctx, "a", "b", "missing")
	s.Require().NoError(err)
	s.Equal(int64(2), removed)

	exists, err = s.client.Exists(s.ctx, "a")
	s.Require().NoError(err)
	s.False(exists)

	removed, err = s.client.Del(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), removed)
}

type profile struct {
	Name  string `json:"name" msgpack:"name"`
	Level int    `json:"level" msgpack:"level"`
}

func (s *ClientTestSuite) TestObjectRoundTrip() {
	in := profile{Name: "alice", Level: 7}
	s.Require().NoError(s.client.SetObject(s.ctx, "profile", in, 0))

	stored, err := s.miniRedis.Get(testPrefix + "profile")
	s.Require().NoError(err)
	s.JSONEq(`{"name":"alice","level":7}`, stored)

	var out profile
	s.Require().NoError(s.client.GetObject(s.ctx, "profile", &out))
	s.Equal(in, out)

	s.Require().NoError(s.miniRedis.Set(testPrefix+"broken", "{"))
	err = s.client.GetObject(s.ctx, "broken", &out)
	s.Require().Error(err)
	s.Contains(err.Error(), "failed to decode json value")
}

func (s *ClientTestSuite) TestObserverReceivesOperations() {
	obs := &TestObserver{}
	s.client.WithObserver(obs)

	s.Require().NoError(s.client.SetString(s.ctx, "k", "v"))
	_, err := s.client.Get(s.ctx, "k")
	s.Require().NoError(err)

	ops := obs.GetOperations()
	s.Require().Len(ops, 2)
	s.Equal("set", ops[0].Operation)
	s.Equal(testPrefix+"k", ops[0].Resource)
	s.Equal("get", ops[1].Operation)
	s.Equal(int64(1), ops[1].Size)
}

func (s *ClientTestSuite) TestPoolIsCreatedLazily() {
	s.Nil(s.client.PoolStats())

	s.Require().NoError(s.client.Ping(s.ctx))
	s.NotNil(s.client.PoolStats())
}

func (s *ClientTestSuite) TestCloseIsIdempotent() {
	s.Require().NoError(s.client.Ping(s.ctx))

	s.Require().NoError(s.client.Close())
	s.Require().NoError(s.client.Close())

	_, err := s.client.GetString(s.ctx, "k")
	s.True(IsClosedError(err))

	_, err = s.client.Client(s.ctx)
	s.ErrorIs(err, ErrClosed)

	n, err := s.client.Del(s.ctx)
	s.ErrorIs(err, ErrClosed)
	s.Zero(n)

	_, err = s.client.Del(s.ctx, "k")
	s.ErrorIs(err, ErrClosed)
}

func (s *ClientTestSuite) TestKeySlotAppliesPrefix() {
	s.Equal(KeySlot(testPrefix+"k"), s.client.KeySlot("k"))
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func deadAddr(t *testing.T) string {
	t.Helper()
	port, err := getFreePort()
	require.NoError(t, err)
	return net.JoinHostPort("127.0.0.1", port)
}

func TestNewClient_FallsBackToNextAddress(t *testing.T) {
	mr := miniredis.RunT(t)
	ctrl := gomock.NewController(t)
	log := NewMockLogger(ctrl)

	dead := deadAddr(t)
	log.EXPECT().Error("Failed to create Redis pool", gomock.Any(), map[string]interface{}{"addr": dead}).Times(1)
	log.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	client, err := NewClient(Config{
		Addrs:      []string{dead, mr.Addr()},
		KeyPrefix:  "p_",
		MaxRetries: -1,
		Pool:       PoolConfig{ConnectTimeout: time.Second},
		Logger:     log,
	})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.SetString(context.Background(), "k", "v"))
	assert.True(t, mr.Exists("p_k"))
}

func TestNewClient_AllAddressesDown(t *testing.T) {
	client, err := NewClient(Config{
		Addrs:      []string{deadAddr(t), deadAddr(t)},
		MaxRetries: -1,
		Pool:       PoolConfig{ConnectTimeout: time.Second},
	})
	require.NoError(t, err)
	defer client.Close()

	err = client.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no reachable address")
	assert.Nil(t, client.PoolStats())
}

func TestNewClient_RetriesInitOnNextCall(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client, err := NewClient(Config{
		Addrs:      []string{addr},
		MaxRetries: -1,
		Pool:       PoolConfig{ConnectTimeout: time.Second},
	})
	require.NoError(t, err)
	defer client.Close()

	require.Error(t, client.Ping(context.Background()))

	require.NoError(t, mr.Restart())
	assert.NoError(t, client.Ping(context.Background()))
}

func TestNewClient_DefaultAddress(t *testing.T) {
	client, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, ModeStandalone, client.Mode())
	assert.Equal(t, DefaultPoolConfig(), client.PoolConfig())
	assert.Equal(t, "", client.KeyPrefix())
}

func TestNewClusterClient_RequiresAddress(t *testing.T) {
	_, err := NewClusterClient(ClusterConfig{})
	assert.ErrorIs(t, err, ErrNoAddress)
}

func TestNewFailoverClient_RequiresMaster(t *testing.T) {
	_, err := NewFailoverClient(FailoverConfig{SentinelAddrs: []string{"localhost:26379"}})
	assert.ErrorIs(t, err, ErrNoAddress)

	_, err = NewFailoverClient(FailoverConfig{MasterName: "mymaster"})
	assert.ErrorIs(t, err, ErrNoAddress)

	client, err := NewFailoverClient(FailoverConfig{MasterName: "mymaster", SentinelAddrs: []string{"localhost:26379"}})
	require.NoError(t, err)
	assert.Equal(t, ModeFailover, client.Mode())
}

func TestNewClient_TLSConfigErrors(t *testing.T) {
	_, err := NewClient(Config{TLS: TLSConfig{Enabled: true, CACertPath: "/does/not/exist.pem"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create TLS config")
}

func TestQuietHelpers(t *testing.T) {
	mr := miniredis.RunT(t)
	ctrl := gomock.NewController(t)
	log := NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	client, err := NewClient(Config{Addrs: []string{mr.Addr()}, KeyPrefix: "q_", MaxRetries: -1, Logger: log})
	require.NoError(t, err)
	ctx := context.Background()

	client.StoreString(ctx, "k", "v", time.Minute)
	assert.True(t, mr.Exists("q_k"))

	v, ok := client.LookupString(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	// A miss is not logged
	_, ok = client.LookupString(ctx, "missing")
	assert.False(t, ok)

	client.Delete(ctx, "k")
	assert.False(t, mr.Exists("q_k"))

	require.NoError(t, client.Close())

	log.EXPECT().Error("Failed to set key", gomock.Any(), map[string]interface{}{"key": "q_k"}).Times(1)
	log.EXPECT().Error("Failed to get key", gomock.Any(), map[string]interface{}{"key": "q_k"}).Times(1)
	log.EXPECT().Error("Failed to delete keys", gomock.Any(), map[string]interface{}{"keys": []string{"q_k"}}).Times(1)

	client.StoreString(ctx, "k", "v", 0)
	_, ok = client.LookupString(ctx, "k")
	assert.False(t, ok)
	client.Delete(ctx, "k")
}

func TestWrongTypeIsReturned(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(Config{Addrs: []string{mr.Addr()}, MaxRetries: -1})
	require.NoError(t, err)
	defer client.Close()

	_, err = mr.Lpush("list", "x")
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "list")
	require.Error(t, err)
	assert.False(t, errors.Is(err, Nil))
	assert.Contains(t, err.Error(), "WRONGTYPE")
}
