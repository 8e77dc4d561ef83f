package redis

import (
	"time"

	"github.com/jzy/redis-data/v1/observability"
)

// observeKey reports a finished key operation. full is the prefixed key, or the
// first key of a multi-key operation.
func (r *RedisClient) observeKey(operation, full string, start time.Time, err error, size int64, metadata map[string]interface{}) {
	r.observe(operation, full, "", start, err, size, metadata)
}

// observeBatch reports a batch flush. addr names the node for a per-node
// flush and is empty for the batch as a whole; size is the number of commands.
func (r *RedisClient) observeBatch(operation, addr string, start time.Time, err error, commands int, metadata map[string]interface{}) {
	r.observe(operation, r.keyspace.Prefix(), addr, start, err, int64(commands), metadata)
}

func (r *RedisClient) observe(operation, resource, subResource string, start time.Time, err error, size int64, metadata map[string]interface{}) {
	if r == nil || r.observer == nil {
		return
	}

	if metadata == nil {
		metadata = make(map[string]interface{}, 1)
	}
	metadata["mode"] = string(r.mode)

	r.observer.ObserveOperation(observability.OperationContext{
		Component:   "redis",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    time.Since(start),
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}
