package redis

import "time"

// PoolConfig describes the connection pool shared by all operations of one client.
// Every field is passed to go-redis unchanged; zero values are filled from the
// defaults of the deployment mode (see DefaultPoolConfig and DefaultClusterPoolConfig).
// The integer fields take a negative value to opt out of that default.
type PoolConfig struct {
	// MaxTotal is the maximum number of connections the pool may open.
	// Maps to go-redis PoolSize. Zero selects the mode default; a negative value
	// leaves the go-redis default (10 per CPU).
	MaxTotal int `yaml:"max_total" envconfig:"REDIS_POOL_MAX_TOTAL"`

	// MaxIdle is the maximum number of idle connections kept in the pool.
	// Maps to go-redis MaxIdleConns. Zero selects the mode default; a negative
	// value passes 0 to go-redis, which keeps idle connections without limit.
	MaxIdle int `yaml:"max_idle" envconfig:"REDIS_POOL_MAX_IDLE"`

	// MinIdle is the minimum number of idle connections kept open.
	// Maps to go-redis MinIdleConns. Zero selects the mode default; a negative
	// value keeps no idle connections open.
	MinIdle int `yaml:"min_idle" envconfig:"REDIS_POOL_MIN_IDLE"`

	// MaxWait is how long a caller waits for a free connection before the
	// operation fails with ErrPoolTimeout. Maps to go-redis PoolTimeout.
	MaxWait time.Duration `yaml:"max_wait" envconfig:"REDIS_POOL_MAX_WAIT"`

	// ConnectTimeout bounds dialing a new connection. Maps to go-redis DialTimeout.
	// It also bounds the PING issued during lazy initialization.
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"REDIS_POOL_CONNECT_TIMEOUT"`

	// SocketTimeout bounds socket reads and writes.
	// Maps to go-redis ReadTimeout and WriteTimeout.
	SocketTimeout time.Duration `yaml:"socket_timeout" envconfig:"REDIS_POOL_SOCKET_TIMEOUT"`

	// TestOnBorrow validates every newly opened connection with a PING before
	// it is handed out.
	TestOnBorrow bool `yaml:"test_on_borrow" envconfig:"REDIS_POOL_TEST_ON_BORROW"`
}

// Config defines the configuration for a standalone Redis deployment.
type Config struct {
	// Addrs lists "host:port" addresses in fallback order. The first one that
	// answers PING during lazy initialization is used.
	// Default: []string{"localhost:6379"}
	Addrs []string `yaml:"addrs" envconfig:"REDIS_ADDRS"`

	// Username is the Redis username for ACL authentication (Redis 6.0+)
	Username string `yaml:"username" envconfig:"REDIS_USERNAME"`

	// Password is the Redis password for authentication
	Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`

	// DB is the Redis database number to use
	// Default: 0
	DB int `yaml:"db" envconfig:"REDIS_DB"`

	// KeyPrefix is the client identifier prepended to every key. It is fixed
	// for the lifetime of the client.
	KeyPrefix string `yaml:"key_prefix" envconfig:"REDIS_KEY_PREFIX"`

	// Pool configures the connection pool
	Pool PoolConfig `yaml:"pool"`

	// MaxRetries is passed to go-redis. The wrapper itself never retries.
	// Default: 0 (go-redis default); -1 disables go-redis retries
	MaxRetries int `yaml:"max_retries" envconfig:"REDIS_MAX_RETRIES"`

	// TLS contains TLS/SSL configuration
	TLS TLSConfig `yaml:"tls"`

	// Logger is an optional logger used for initialization and quiet-helper errors
	Logger Logger `yaml:"-" ignored:"true"`

	// Codec serializes values for SetObject/GetObject
	// Default: JSONCodec
	Codec Codec `yaml:"-" ignored:"true"`
}

// TLSConfig contains TLS/SSL configuration parameters.
type TLSConfig struct {
	// Enabled determines whether to use TLS/SSL for the connection
	Enabled bool `yaml:"enabled" envconfig:"REDIS_TLS_ENABLED"`

	// CACertPath is the file path to the CA certificate for verifying the server
	CACertPath string `yaml:"ca_cert_path" envconfig:"REDIS_TLS_CA_CERT_PATH"`

	// ClientCertPath is the file path to the client certificate
	ClientCertPath string `yaml:"client_cert_path" envconfig:"REDIS_TLS_CLIENT_CERT_PATH"`

	// ClientKeyPath is the file path to the client certificate's private key
	ClientKeyPath string `yaml:"client_key_path" envconfig:"REDIS_TLS_CLIENT_KEY_PATH"`

	// InsecureSkipVerify controls whether to skip verification of the server's certificate
	// WARNING: Setting this to true is insecure and should only be used in testing
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" envconfig:"REDIS_TLS_INSECURE_SKIP_VERIFY"`

	// ServerName is used to verify the hostname on the returned certificates
	ServerName string `yaml:"server_name" envconfig:"REDIS_TLS_SERVER_NAME"`
}

// ClusterConfig defines the configuration for Redis Cluster mode.
type ClusterConfig struct {
	// Addrs is a seed list of cluster nodes
	// Example: []string{"localhost:7000", "localhost:7001", "localhost:7002"}
	Addrs []string `yaml:"addrs" envconfig:"REDIS_CLUSTER_ADDRS"`

	// Username is the Redis username for ACL authentication (Redis 6.0+)
	Username string `yaml:"username" envconfig:"REDIS_CLUSTER_USERNAME"`

	// Password is the Redis password for authentication
	Password string `yaml:"password" envconfig:"REDIS_CLUSTER_PASSWORD"`

	// KeyPrefix is the client identifier prepended to every key
	KeyPrefix string `yaml:"key_prefix" envconfig:"REDIS_CLUSTER_KEY_PREFIX"`

	// Pool configures the per-node connection pools
	Pool PoolConfig `yaml:"pool"`

	// MaxRedirects is the maximum number of MOVED/ASK redirects go-redis follows
	// Default: 3
	MaxRedirects int `yaml:"max_redirects" envconfig:"REDIS_CLUSTER_MAX_REDIRECTS"`

	// ReadOnly enables read-only mode (read from replicas)
	ReadOnly bool `yaml:"read_only" envconfig:"REDIS_CLUSTER_READ_ONLY"`

	// RouteByLatency routes read-only commands to the closest master or replica node
	RouteByLatency bool `yaml:"route_by_latency" envconfig:"REDIS_CLUSTER_ROUTE_BY_LATENCY"`

	// RouteRandomly routes read-only commands to random master or replica nodes
	RouteRandomly bool `yaml:"route_randomly" envconfig:"REDIS_CLUSTER_ROUTE_RANDOMLY"`

	// MaxRetries is passed to go-redis
	MaxRetries int `yaml:"max_retries" envconfig:"REDIS_CLUSTER_MAX_RETRIES"`

	// TLS contains TLS/SSL configuration
	TLS TLSConfig `yaml:"tls"`

	// Logger is an optional logger
	Logger Logger `yaml:"-" ignored:"true"`

	// Codec serializes values for SetObject/GetObject
	Codec Codec `yaml:"-" ignored:"true"`
}

// FailoverConfig defines the configuration for Redis Sentinel (failover) mode.
type FailoverConfig struct {
	// MasterName is the name of the master instance as configured in Sentinel
	MasterName string `yaml:"master_name" envconfig:"REDIS_SENTINEL_MASTER_NAME"`

	// SentinelAddrs is a list of Sentinel node addresses
	SentinelAddrs []string `yaml:"sentinel_addrs" envconfig:"REDIS_SENTINEL_ADDRS"`

	// SentinelUsername is the username for Sentinel authentication (Redis 6.0+)
	SentinelUsername string `yaml:"sentinel_username" envconfig:"REDIS_SENTINEL_USERNAME"`

	// SentinelPassword is the password for Sentinel authentication
	SentinelPassword string `yaml:"sentinel_password" envconfig:"REDIS_SENTINEL_PASSWORD"`

	// Username is the Redis username for ACL authentication (Redis 6.0+)
	Username string `yaml:"username" envconfig:"REDIS_SENTINEL_DATA_USERNAME"`

	// Password is the Redis password for authentication
	Password string `yaml:"password" envconfig:"REDIS_SENTINEL_DATA_PASSWORD"`

	// DB is the Redis database number to use
	DB int `yaml:"db" envconfig:"REDIS_SENTINEL_DB"`

	// KeyPrefix is the client identifier prepended to every key
	KeyPrefix string `yaml:"key_prefix" envconfig:"REDIS_SENTINEL_KEY_PREFIX"`

	// Pool configures the connection pool
	Pool PoolConfig `yaml:"pool"`

	// ReplicaOnly forces read-only queries to go to replica nodes
	ReplicaOnly bool `yaml:"replica_only" envconfig:"REDIS_SENTINEL_REPLICA_ONLY"`

	// MaxRetries is passed to go-redis
	MaxRetries int `yaml:"max_retries" envconfig:"REDIS_SENTINEL_MAX_RETRIES"`

	// TLS contains TLS/SSL configuration
	TLS TLSConfig `yaml:"tls"`

	// Logger is an optional logger
	Logger Logger `yaml:"-" ignored:"true"`

	// Codec serializes values for SetObject/GetObject
	Codec Codec `yaml:"-" ignored:"true"`
}

// Logger is the logging contract of this package; *logger.LoggerClient satisfies it.
//
//go:generate mockgen -source=configs.go -destination=mock_logger.go -package=redis
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Default values for configuration
const (
	DefaultAddr                = "localhost:6379"
	DefaultClusterMaxRedirects = 3

	// Standalone pool
	DefaultMaxTotal       = 150
	DefaultMaxIdle        = 30
	DefaultMinIdle        = 10
	DefaultMaxWait        = 3 * time.Second
	DefaultConnectTimeout = 30 * time.Second
	DefaultSocketTimeout  = 30 * time.Second

	// Cluster pool, per node
	DefaultClusterMaxTotal       = 100
	DefaultClusterMaxIdle        = 10
	DefaultClusterMinIdle        = 0
	DefaultClusterMaxWait        = 1 * time.Second
	DefaultClusterConnectTimeout = 2 * time.Second
	DefaultClusterSocketTimeout  = 2 * time.Second
)

// Common live times for Set, SetNX and Expire.
const (
	ExpireHour  = time.Hour
	ExpireDay   = 24 * time.Hour
	ExpireMonth = 30 * ExpireDay
)

// DefaultPoolConfig returns the pool defaults for standalone and Sentinel clients.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxTotal:       DefaultMaxTotal,
		MaxIdle:        DefaultMaxIdle,
		MinIdle:        DefaultMinIdle,
		MaxWait:        DefaultMaxWait,
		ConnectTimeout: DefaultConnectTimeout,
		SocketTimeout:  DefaultSocketTimeout,
	}
}

// DefaultClusterPoolConfig returns the per-node pool defaults for cluster clients.
func DefaultClusterPoolConfig() PoolConfig {
	return PoolConfig{
		MaxTotal:       DefaultClusterMaxTotal,
		MaxIdle:        DefaultClusterMaxIdle,
		MinIdle:        DefaultClusterMinIdle,
		MaxWait:        DefaultClusterMaxWait,
		ConnectTimeout: DefaultClusterConnectTimeout,
		SocketTimeout:  DefaultClusterSocketTimeout,
	}
}

// withDefaults fills every zero field of p from defaults.
// TestOnBorrow has no default other than false and is kept as is.
func (p PoolConfig) withDefaults(defaults PoolConfig) PoolConfig {
	if p.MaxTotal == 0 {
		p.MaxTotal = defaults.MaxTotal
	}
	if p.MaxIdle == 0 {
		p.MaxIdle = defaults.MaxIdle
	}
	if p.MinIdle == 0 {
		p.MinIdle = defaults.MinIdle
	}
	if p.MaxWait == 0 {
		p.MaxWait = defaults.MaxWait
	}
	if p.ConnectTimeout == 0 {
		p.ConnectTimeout = defaults.ConnectTimeout
	}
	if p.SocketTimeout == 0 {
		p.SocketTimeout = defaults.SocketTimeout
	}
	return p
}

// maxIdle maps MaxIdle to go-redis MaxIdleConns.
func (p PoolConfig) maxIdle() int {
	return max(p.MaxIdle, 0)
}

// minIdle maps MinIdle to go-redis MinIdleConns.
func (p PoolConfig) minIdle() int {
	return max(p.MinIdle, 0)
}

// poolSize maps MaxTotal to go-redis PoolSize, where 0 selects the library default.
func (p PoolConfig) poolSize() int {
	if p.MaxTotal < 0 {
		return 0
	}
	return p.MaxTotal
}
