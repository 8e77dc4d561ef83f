package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client provides a high-level interface for interacting with Redis.
// Every caller key is prefixed with the client identifier before it is sent, and
// the connection pool is created on first use.
//
// This interface is implemented by the concrete *RedisClient type.
type Client interface {
	// Connection and lifecycle
	Ping(ctx context.Context) error
	PoolStats() *redis.PoolStats
	Client(ctx context.Context) (redis.UniversalClient, error)
	Mode() Mode
	KeyPrefix() string
	Keyspace() Keyspace
	KeySlot(key string) int
	Close() error

	// String operations
	Get(ctx context.Context, key string) ([]byte, error)
	GetString(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value []byte, liveTime time.Duration) error
	SetString(ctx context.Context, key, value string) error
	SetStringEX(ctx context.Context, key string, seconds int, value string) error
	SetNX(ctx context.Context, key string, value []byte, liveTime time.Duration) (bool, error)
	SetNXString(ctx context.Context, key, value string, liveTime time.Duration) (bool, error)

	// Encoded values
	SetObject(ctx context.Context, key string, value interface{}, liveTime time.Duration) error
	GetObject(ctx context.Context, key string, dest interface{}) error

	// Key operations
	Expire(ctx context.Context, key string, liveTime time.Duration) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Persist(ctx context.Context, key string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) (int64, error)
	Type(ctx context.Context, key string) (string, error)

	// Operations that log failures instead of returning them
	Delete(ctx context.Context, keys ...string)
	LookupString(ctx context.Context, key string) (string, bool)
	StoreString(ctx context.Context, key, value string, liveTime time.Duration)

	// Cross-node pipelining
	Batch() *Batch
}

var _ Client = (*RedisClient)(nil)
