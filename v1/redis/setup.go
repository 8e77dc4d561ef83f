package redis

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/jzy/redis-data/v1/observability"
	"github.com/redis/go-redis/v9"
)

// Mode identifies the Redis deployment a client talks to.
type Mode string

const (
	ModeStandalone Mode = "standalone"
	ModeCluster    Mode = "cluster"
	ModeFailover   Mode = "failover"
)

// connector builds the underlying go-redis client. It is called under the init lock.
type connector func(ctx context.Context) (redis.UniversalClient, error)

// conn boxes the initialized client so it can live in an atomic.Pointer.
type conn struct {
	redis.UniversalClient
}

// RedisClient represents a client for interacting with Redis.
// It wraps the go-redis client, prefixes every key with a fixed client
// identifier and creates the connection pool lazily on first use.
//
// RedisClient implements the Client interface.
type RedisClient struct {
	mode     Mode
	keyspace Keyspace
	pool     PoolConfig
	codec    Codec

	// connect creates the go-redis client on first use
	connect connector

	// current holds the initialized client; nil until the first successful init
	current atomic.Pointer[conn]

	// initMu serializes lazy initialization only
	initMu sync.Mutex

	closed atomic.Bool

	// logger is used for structured logging
	logger Logger

	// observer provides optional observability hooks for tracking operations
	observer observability.Observer

	// hooks are attached to the go-redis client when it is created
	hooks []redis.Hook
}

// NewClient creates a Redis client for a standalone deployment.
// No connection is made until the first operation.
//
// Example:
//
//	client, err := redis.NewClient(redis.Config{
//		Addrs:     []string{"10.0.0.1:6379", "10.0.0.2:6379"},
//		KeyPrefix: "tenant-a_",
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
func NewClient(cfg Config) (*RedisClient, error) {
	if len(cfg.Addrs) == 0 {
		cfg.Addrs = []string{DefaultAddr}
	}
	cfg.Pool = cfg.Pool.withDefaults(DefaultPoolConfig())

	var tlsConfig *tls.Config
	if cfg.TLS.Enabled {
		var err error
		tlsConfig, err = createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	r := newRedisClient(ModeStandalone, cfg.KeyPrefix, cfg.Pool, cfg.Codec, cfg.Logger)
	r.connect = func(ctx context.Context) (redis.UniversalClient, error) {
		var errs []error
		for _, addr := range cfg.Addrs {
			client := redis.NewClient(newOptions(cfg, addr, tlsConfig))
			if err := r.pingWithTimeout(ctx, client); err != nil {
				r.logError("Failed to create Redis pool", err, map[string]interface{}{"addr": addr})
				_ = client.Close()
				errs = append(errs, fmt.Errorf("%s: %w", addr, err))
				continue
			}
			return client, nil
		}
		return nil, fmt.Errorf("redis: no reachable address: %w", errors.Join(errs...))
	}
	return r, nil
}

// NewClusterClient creates a Redis Cluster client. Slot routing and MOVED/ASK
// redirection are handled by go-redis.
//
// Example:
//
//	client, err := redis.NewClusterClient(redis.ClusterConfig{
//		Addrs:     []string{"192.168.1.136:7000", "192.168.1.137:7000"},
//		KeyPrefix: "tenant-a_",
//	})
func NewClusterClient(cfg ClusterConfig) (*RedisClient, error) {
	if len(cfg.Addrs) == 0 {
		return nil, ErrNoAddress
	}
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = DefaultClusterMaxRedirects
	}
	cfg.Pool = cfg.Pool.withDefaults(DefaultClusterPoolConfig())

	var tlsConfig *tls.Config
	if cfg.TLS.Enabled {
		var err error
		tlsConfig, err = createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	r := newRedisClient(ModeCluster, cfg.KeyPrefix, cfg.Pool, cfg.Codec, cfg.Logger)
	r.connect = func(ctx context.Context) (redis.UniversalClient, error) {
		client := redis.NewClusterClient(newClusterOptions(cfg, tlsConfig))
		if err := r.pingWithTimeout(ctx, client); err != nil {
			r.logError("Failed to create Redis Cluster pool", err, map[string]interface{}{"addrs": cfg.Addrs})
			_ = client.Close()
			return nil, err
		}
		return client, nil
	}
	return r, nil
}

// NewFailoverClient creates a client for a Sentinel-managed deployment.
func NewFailoverClient(cfg FailoverConfig) (*RedisClient, error) {
	if cfg.MasterName == "" || len(cfg.SentinelAddrs) == 0 {
		return nil, ErrNoAddress
	}
	cfg.Pool = cfg.Pool.withDefaults(DefaultPoolConfig())

	var tlsConfig *tls.Config
	if cfg.TLS.Enabled {
		var err error
		tlsConfig, err = createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	r := newRedisClient(ModeFailover, cfg.KeyPrefix, cfg.Pool, cfg.Codec, cfg.Logger)
	r.connect = func(ctx context.Context) (redis.UniversalClient, error) {
		client := redis.NewFailoverClient(newFailoverOptions(cfg, tlsConfig))
		if err := r.pingWithTimeout(ctx, client); err != nil {
			r.logError("Failed to create Redis Failover pool", err, map[string]interface{}{"master": cfg.MasterName})
			_ = client.Close()
			return nil, err
		}
		return client, nil
	}
	return r, nil
}

func newRedisClient(mode Mode, prefix string, pool PoolConfig, codec Codec, logger Logger) *RedisClient {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &RedisClient{
		mode:     mode,
		keyspace: NewKeyspace(prefix),
		pool:     pool,
		codec:    codec,
		logger:   logger,
	}
}

// newOptions maps a standalone Config onto go-redis options for one address.
func newOptions(cfg Config, addr string, tlsConfig *tls.Config) *redis.Options {
	return &redis.Options{
		Addr:         addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.Pool.poolSize(),
		MaxIdleConns: cfg.Pool.maxIdle(),
		MinIdleConns: cfg.Pool.minIdle(),
		PoolTimeout:  cfg.Pool.MaxWait,
		DialTimeout:  cfg.Pool.ConnectTimeout,
		ReadTimeout:  cfg.Pool.SocketTimeout,
		WriteTimeout: cfg.Pool.SocketTimeout,
		MaxRetries:   cfg.MaxRetries,
		TLSConfig:    tlsConfig,
		OnConnect:    onConnect(cfg.Pool),
	}
}

func newClusterOptions(cfg ClusterConfig, tlsConfig *tls.Config) *redis.ClusterOptions {
	return &redis.ClusterOptions{
		Addrs:          cfg.Addrs,
		Username:       cfg.Username,
		Password:       cfg.Password,
		MaxRedirects:   cfg.MaxRedirects,
		ReadOnly:       cfg.ReadOnly,
		RouteByLatency: cfg.RouteByLatency,
		RouteRandomly:  cfg.RouteRandomly,
		PoolSize:       cfg.Pool.poolSize(),
		MaxIdleConns:   cfg.Pool.maxIdle(),
		MinIdleConns:   cfg.Pool.minIdle(),
		PoolTimeout:    cfg.Pool.MaxWait,
		DialTimeout:    cfg.Pool.ConnectTimeout,
		ReadTimeout:    cfg.Pool.SocketTimeout,
		WriteTimeout:   cfg.Pool.SocketTimeout,
		MaxRetries:     cfg.MaxRetries,
		TLSConfig:      tlsConfig,
		OnConnect:      onConnect(cfg.Pool),
	}
}

func newFailoverOptions(cfg FailoverConfig, tlsConfig *tls.Config) *redis.FailoverOptions {
	return &redis.FailoverOptions{
		MasterName:       cfg.MasterName,
		SentinelAddrs:    cfg.SentinelAddrs,
		SentinelUsername: cfg.SentinelUsername,
		SentinelPassword: cfg.SentinelPassword,
		Username:         cfg.Username,
		Password:         cfg.Password,
		DB:               cfg.DB,
		ReplicaOnly:      cfg.ReplicaOnly,
		PoolSize:         cfg.Pool.poolSize(),
		MaxIdleConns:     cfg.Pool.maxIdle(),
		MinIdleConns:     cfg.Pool.minIdle(),
		PoolTimeout:      cfg.Pool.MaxWait,
		DialTimeout:      cfg.Pool.ConnectTimeout,
		ReadTimeout:      cfg.Pool.SocketTimeout,
		WriteTimeout:     cfg.Pool.SocketTimeout,
		MaxRetries:       cfg.MaxRetries,
		TLSConfig:        tlsConfig,
		OnConnect:        onConnect(cfg.Pool),
	}
}

// onConnect returns the PING check for new connections when TestOnBorrow is set.
func onConnect(pool PoolConfig) func(ctx context.Context, cn *redis.Conn) error {
	if !pool.TestOnBorrow {
		return nil
	}
	return func(ctx context.Context, cn *redis.Conn) error {
		return cn.Ping(ctx).Err()
	}
}

// createTLSConfig creates a TLS configuration from the provided config
func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, // #nosec G402
		ServerName:         cfg.ServerName,
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

func (r *RedisClient) pingWithTimeout(ctx context.Context, client redis.UniversalClient) error {
	if r.pool.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.pool.ConnectTimeout)
		defer cancel()
	}
	return client.Ping(ctx).Err()
}

// conn returns the go-redis client, creating it on first use.
// The init lock is only taken while no client exists yet.
func (r *RedisClient) conn(ctx context.Context) (redis.UniversalClient, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	if c := r.current.Load(); c != nil {
		return c.UniversalClient, nil
	}

	r.initMu.Lock()
	defer r.initMu.Unlock()

	if r.closed.Load() {
		return nil, ErrClosed
	}
	if c := r.current.Load(); c != nil {
		return c.UniversalClient, nil
	}

	client, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}
	for _, h := range r.hooks {
		client.AddHook(h)
	}
	r.current.Store(&conn{client})
	r.logInfo("Redis client initialized", map[string]interface{}{
		"mode":   string(r.mode),
		"prefix": r.keyspace.Prefix(),
	})
	return client, nil
}

// Client returns the underlying go-redis client for advanced operations,
// creating it if needed. Keys passed to it directly are not prefixed.
func (r *RedisClient) Client(ctx context.Context) (redis.UniversalClient, error) {
	return r.conn(ctx)
}

// Mode returns the deployment mode this client was created for.
func (r *RedisClient) Mode() Mode {
	return r.mode
}

// KeyPrefix returns the fixed client identifier.
func (r *RedisClient) KeyPrefix() string {
	return r.keyspace.Prefix()
}

// Keyspace returns the key prefixer used by this client.
func (r *RedisClient) Keyspace() Keyspace {
	return r.keyspace
}

// PoolConfig returns the effective pool configuration after defaults.
func (r *RedisClient) PoolConfig() PoolConfig {
	return r.pool
}

// Close closes the Redis client and releases all resources.
// It is safe to call more than once; later operations return ErrClosed.
func (r *RedisClient) Close() error {
	if r.closed.Swap(true) {
		return nil
	}

	r.initMu.Lock()
	defer r.initMu.Unlock()

	c := r.current.Swap(nil)
	if c == nil {
		return nil
	}

	r.logInfo("Closing Redis client", nil)
	if err := c.Close(); err != nil {
		r.logWarn("Failed to close Redis client", err, nil)
		return err
	}
	return nil
}

// WithObserver sets the observer for this client and returns the client for method chaining.
// The observer receives events about Redis operations (e.g., get, set, delete).
//
// Example:
//
//	client := client.WithObserver(myObserver).WithLogger(myLogger)
func (r *RedisClient) WithObserver(observer observability.Observer) *RedisClient {
	r.observer = observer
	return r
}

// WithLogger sets the logger for this client and returns the client for method chaining.
func (r *RedisClient) WithLogger(logger Logger) *RedisClient {
	r.logger = logger
	return r
}

// WithHook registers a go-redis hook. Hooks must be registered before the first
// operation; later registrations apply to the live client immediately.
func (r *RedisClient) WithHook(hook redis.Hook) *RedisClient {
	r.initMu.Lock()
	defer r.initMu.Unlock()

	r.hooks = append(r.hooks, hook)
	if c := r.current.Load(); c != nil {
		c.AddHook(hook)
	}
	return r
}

func (r *RedisClient) logError(msg string, err error, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.Error(msg, err, fields)
	}
}

func (r *RedisClient) logWarn(msg string, err error, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.Warn(msg, err, fields)
	}
}

func (r *RedisClient) logInfo(msg string, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.Info(msg, nil, fields)
	}
}
