package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ping checks if the Redis server is reachable and responsive.
// The first call creates the connection pool.
func (r *RedisClient) Ping(ctx context.Context) error {
	c, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return c.Ping(ctx).Err()
}

// PoolStats returns connection pool statistics, or nil before the pool exists.
func (r *RedisClient) PoolStats() *redis.PoolStats {
	c := r.current.Load()
	if c == nil {
		return nil
	}
	return c.PoolStats()
}

// Get retrieves the raw value stored under key.
// Returns Nil if the key does not exist.
func (r *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	full := r.keyspace.Key(key)

	c, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	result, err := c.Get(ctx, full).Bytes()
	r.observeKey("get", full, start, err, int64(len(result)), nil)
	return result, err
}

// GetString retrieves the value stored under key as a string.
// Returns Nil if the key does not exist.
func (r *RedisClient) GetString(ctx context.Context, key string) (string, error) {
	b, err := r.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Set stores value under key. A positive liveTime sets a millisecond-precision
// expiry; zero or negative stores the key without expiry.
func (r *RedisClient) Set(ctx context.Context, key string, value []byte, liveTime time.Duration) error {
	return r.set(ctx, key, value, liveTime)
}

// SetString stores a string value without expiry.
func (r *RedisClient) SetString(ctx context.Context, key, value string) error {
	return r.set(ctx, key, value, 0)
}

// SetStringEX stores a string value that expires after the given number of seconds.
func (r *RedisClient) SetStringEX(ctx context.Context, key string, seconds int, value string) error {
	return r.set(ctx, key, value, time.Duration(seconds)*time.Second)
}

func (r *RedisClient) set(ctx context.Context, key string, value interface{}, liveTime time.Duration) error {
	start := time.Now()
	full := r.keyspace.Key(key)

	c, err := r.conn(ctx)
	if err != nil {
		return err
	}

	err = c.Set(ctx, full, value, expiry(liveTime)).Err()
	metadata := map[string]interface{}{}
	if liveTime > 0 {
		metadata["ttl"] = liveTime.String()
	}
	r.observeKey("set", full, start, err, valueSize(value), metadata)
	return err
}

// SetNX stores value under key only if the key does not exist, applying liveTime
// in the same command. Returns true if the key was set.
func (r *RedisClient) SetNX(ctx context.Context, key string, value []byte, liveTime time.Duration) (bool, error) {
	return r.setNX(ctx, key, value, liveTime)
}

// SetNXString is SetNX for string values.
func (r *RedisClient) SetNXString(ctx context.Context, key, value string, liveTime time.Duration) (bool, error) {
	return r.setNX(ctx, key, value, liveTime)
}

func (r *RedisClient) setNX(ctx context.Context, key string, value interface{}, liveTime time.Duration) (bool, error) {
	start := time.Now()
	full := r.keyspace.Key(key)

	c, err := r.conn(ctx)
	if err != nil {
		return false, err
	}

	ok, err := c.SetNX(ctx, full, value, expiry(liveTime)).Result()
	r.observeKey("setnx", full, start, err, valueSize(value), map[string]interface{}{
		"acquired": ok,
	})
	return ok, err
}

// SetObject encodes value with the client's codec and stores it under key.
func (r *RedisClient) SetObject(ctx context.Context, key string, value interface{}, liveTime time.Duration) error {
	data, err := r.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s value: %w", r.codec.Name(), err)
	}
	return r.Set(ctx, key, data, liveTime)
}

// GetObject loads the value stored under key and decodes it into dest.
// Returns Nil if the key does not exist.
func (r *RedisClient) GetObject(ctx context.Context, key string, dest interface{}) error {
	data, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := r.codec.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode %s value: %w", r.codec.Name(), err)
	}
	return nil
}

// Expire sets a millisecond-precision expiry on key.
// Returns false if the key does not exist.
func (r *RedisClient) Expire(ctx context.Context, key string, liveTime time.Duration) (bool, error) {
	start := time.Now()
	full := r.keyspace.Key(key)

	c, err := r.conn(ctx)
	if err != nil {
		return false, err
	}

	ok, err := c.PExpire(ctx, full, liveTime).Result()
	r.observeKey("expire", full, start, err, 0, map[string]interface{}{
		"ttl": liveTime.String(),
	})
	return ok, err
}

// TTL returns the remaining live time of key. go-redis reports -1 for keys
// without expiry and -2 for missing keys.
func (r *RedisClient) TTL(ctx context.Context, key string) (time.Duration, error) {
	c, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	return c.PTTL(ctx, r.keyspace.Key(key)).Result()
}

// Persist removes the expiry from key.
func (r *RedisClient) Persist(ctx context.Context, key string) (bool, error) {
	c, err := r.conn(ctx)
	if err != nil {
		return false, err
	}
	return c.Persist(ctx, r.keyspace.Key(key)).Result()
}

// Exists reports whether key exists.
func (r *RedisClient) Exists(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	full := r.keyspace.Key(key)

	c, err := r.conn(ctx)
	if err != nil {
		return false, err
	}

	n, err := c.Exists(ctx, full).Result()
	r.observeKey("exists", full, start, err, n, nil)
	return n > 0, err
}

// Del removes keys and returns how many existed.
// Keys are deleted one command at a time so that cluster clients never send a
// cross-slot DEL.
func (r *RedisClient) Del(ctx context.Context, keys ...string) (int64, error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}
	if len(keys) == 0 {
		return 0, nil
	}
	start := time.Now()
	full := r.keyspace.Keys(keys...)

	c, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}

	var removed int64
	for _, k := range full {
		n, err := c.Del(ctx, k).Result()
		if err != nil {
			r.observeKey("delete", full[0], start, err, removed, map[string]interface{}{
				"key_count": len(full),
			})
			return removed, err
		}
		removed += n
	}

	r.observeKey("delete", full[0], start, nil, removed, map[string]interface{}{
		"key_count": len(full),
	})
	return removed, nil
}

// Type returns the Redis type of the value stored under key, or "none".
func (r *RedisClient) Type(ctx context.Context, key string) (string, error) {
	start := time.Now()
	full := r.keyspace.Key(key)

	c, err := r.conn(ctx)
	if err != nil {
		return "", err
	}

	t, err := c.Type(ctx, full).Result()
	r.observeKey("type", full, start, err, 0, nil)
	return t, err
}

// KeySlot returns the cluster slot of key after prefixing.
func (r *RedisClient) KeySlot(key string) int {
	return KeySlot(r.keyspace.Key(key))
}

// expiry normalizes a live time for SET: millisecond precision, never negative,
// so it can not collide with redis.KeepTTL. Positive values below a millisecond
// round up to one.
func expiry(liveTime time.Duration) time.Duration {
	if liveTime <= 0 {
		return 0
	}
	if liveTime < time.Millisecond {
		return time.Millisecond
	}
	return liveTime.Truncate(time.Millisecond)
}

func valueSize(v interface{}) int64 {
	switch val := v.(type) {
	case []byte:
		return int64(len(val))
	case string:
		return int64(len(val))
	}
	return 0
}
