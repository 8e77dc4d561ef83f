package redis

import (
	"context"
	"time"
)

// The helpers in this file never return errors. Failures are logged through the
// client's Logger and the caller gets a default value. They suit best-effort
// paths such as cache warming and cleanup where a Redis outage must not fail
// the request.

// Delete removes keys, logging any failure.
func (r *RedisClient) Delete(ctx context.Context, keys ...string) {
	if _, err := r.Del(ctx, keys...); err != nil {
		r.logError("Failed to delete keys", err, map[string]interface{}{
			"keys": r.keyspace.Keys(keys...),
		})
	}
}

// LookupString returns the value under key and whether it was found. Errors are
// logged and reported as a miss.
func (r *RedisClient) LookupString(ctx context.Context, key string) (string, bool) {
	v, err := r.GetString(ctx, key)
	if err != nil {
		if !IsNilError(err) {
			r.logError("Failed to get key", err, map[string]interface{}{
				"key": r.keyspace.Key(key),
			})
		}
		return "", false
	}
	return v, true
}

// StoreString stores value under key with an optional live time, logging any failure.
func (r *RedisClient) StoreString(ctx context.Context, key, value string, liveTime time.Duration) {
	if err := r.set(ctx, key, value, liveTime); err != nil {
		r.logError("Failed to set key", err, map[string]interface{}{
			"key": r.keyspace.Key(key),
		})
	}
}
