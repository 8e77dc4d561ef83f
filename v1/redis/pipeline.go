package redis

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// Batch queues commands and sends them in as few round trips as possible.
//
// Against a cluster each command is routed to the pipeline of the master that
// owns its slot, and all node pipelines are flushed concurrently on Sync. Against
// a standalone or Sentinel deployment a Batch is a single pipeline.
//
// Commands return their go-redis handles immediately; values and errors are
// populated by Sync, or by Close for commands still queued. Nothing is retried: when a node answers MOVED or ASK the
// topology changed under the batch, callers should Refresh and queue again.
//
// A Batch is not safe for concurrent use. Close must be called once the batch
// is no longer needed, whether Sync succeeded or not.
type Batch struct {
	client *RedisClient

	// pipes holds one pipeline per node address, reused for the batch's life
	pipes  map[string]redis.Pipeliner
	queued []redis.Cmder
	slots  map[int]int
	closed bool
}

// Batch starts a new batch on this client.
//
// Example:
//
//	b := client.Batch()
//	defer b.Close()
//
//	for i := 0; i < 10000; i++ {
//		b.Set(ctx, fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i), 0)
//	}
//	if err := b.Sync(ctx); err != nil {
//		return err
//	}
func (r *RedisClient) Batch() *Batch {
	return &Batch{
		client: r,
		pipes:  make(map[string]redis.Pipeliner),
		slots:  make(map[int]int),
	}
}

// route returns the pipeline that must carry a command for the full key.
func (b *Batch) route(ctx context.Context, full string) (redis.Pipeliner, error) {
	if b.closed {
		return nil, ErrBatchClosed
	}

	c, err := b.client.conn(ctx)
	if err != nil {
		return nil, err
	}

	var (
		addr string
		node redis.UniversalClient = c
	)
	switch cl := c.(type) {
	case *redis.ClusterClient:
		master, err := cl.MasterForKey(ctx, full)
		if err != nil {
			return nil, err
		}
		addr = master.Options().Addr
		node = master
	case *redis.Client:
		addr = cl.Options().Addr
	}

	pipe, ok := b.pipes[addr]
	if !ok {
		pipe = node.Pipeline()
		b.pipes[addr] = pipe
	}
	b.slots[KeySlot(full)]++
	return pipe, nil
}

// Set queues a SET with an optional live time.
func (b *Batch) Set(ctx context.Context, key string, value interface{}, liveTime time.Duration) *redis.StatusCmd {
	full := b.client.keyspace.Key(key)
	pipe, err := b.route(ctx, full)
	if err != nil {
		cmd := redis.NewStatusCmd(ctx, "set", full, value)
		cmd.SetErr(err)
		b.queued = append(b.queued, cmd)
		return cmd
	}
	cmd := pipe.Set(ctx, full, value, expiry(liveTime))
	b.queued = append(b.queued, cmd)
	return cmd
}

// SetNX queues a SET NX with an optional live time.
func (b *Batch) SetNX(ctx context.Context, key string, value interface{}, liveTime time.Duration) *redis.BoolCmd {
	full := b.client.keyspace.Key(key)
	pipe, err := b.route(ctx, full)
	if err != nil {
		cmd := redis.NewBoolCmd(ctx, "set", full, value, "nx")
		cmd.SetErr(err)
		b.queued = append(b.queued, cmd)
		return cmd
	}
	cmd := pipe.SetNX(ctx, full, value, expiry(liveTime))
	b.queued = append(b.queued, cmd)
	return cmd
}

// Get queues a GET.
func (b *Batch) Get(ctx context.Context, key string) *redis.StringCmd {
	full := b.client.keyspace.Key(key)
	pipe, err := b.route(ctx, full)
	if err != nil {
		cmd := redis.NewStringCmd(ctx, "get", full)
		cmd.SetErr(err)
		b.queued = append(b.queued, cmd)
		return cmd
	}
	cmd := pipe.Get(ctx, full)
	b.queued = append(b.queued, cmd)
	return cmd
}

// Del queues a DEL of a single key.
func (b *Batch) Del(ctx context.Context, key string) *redis.IntCmd {
	full := b.client.keyspace.Key(key)
	pipe, err := b.route(ctx, full)
	if err != nil {
		cmd := redis.NewIntCmd(ctx, "del", full)
		cmd.SetErr(err)
		b.queued = append(b.queued, cmd)
		return cmd
	}
	cmd := pipe.Del(ctx, full)
	b.queued = append(b.queued, cmd)
	return cmd
}

// Expire queues a PEXPIRE.
func (b *Batch) Expire(ctx context.Context, key string, liveTime time.Duration) *redis.BoolCmd {
	full := b.client.keyspace.Key(key)
	pipe, err := b.route(ctx, full)
	if err != nil {
		cmd := redis.NewBoolCmd(ctx, "pexpire", full, liveTime.Milliseconds())
		cmd.SetErr(err)
		b.queued = append(b.queued, cmd)
		return cmd
	}
	cmd := pipe.PExpire(ctx, full, liveTime)
	b.queued = append(b.queued, cmd)
	return cmd
}

// Exists queues an EXISTS of a single key.
func (b *Batch) Exists(ctx context.Context, key string) *redis.IntCmd {
	full := b.client.keyspace.Key(key)
	pipe, err := b.route(ctx, full)
	if err != nil {
		cmd := redis.NewIntCmd(ctx, "exists", full)
		cmd.SetErr(err)
		b.queued = append(b.queued, cmd)
		return cmd
	}
	cmd := pipe.Exists(ctx, full)
	b.queued = append(b.queued, cmd)
	return cmd
}

// Len returns the number of commands queued since the last Sync.
func (b *Batch) Len() int {
	return len(b.queued)
}

// Nodes returns the sorted addresses of the nodes this batch has opened a
// pipeline to.
func (b *Batch) Nodes() []string {
	nodes := make([]string, 0, len(b.pipes))
	for addr := range b.pipes {
		nodes = append(nodes, addr)
	}
	sort.Strings(nodes)
	return nodes
}

// Slots returns how many commands were routed to each hash slot.
func (b *Batch) Slots() map[int]int {
	out := make(map[int]int, len(b.slots))
	for slot, n := range b.slots {
		out[slot] = n
	}
	return out
}

// Refresh reloads the cluster topology and forgets node pipelines that carry no
// queued command, so the next command is routed with fresh slot ownership.
// It is a no-op outside cluster mode.
func (b *Batch) Refresh(ctx context.Context) error {
	if b.closed {
		return ErrBatchClosed
	}
	c, err := b.client.conn(ctx)
	if err != nil {
		return err
	}
	cl, ok := c.(*redis.ClusterClient)
	if !ok {
		return nil
	}

	cl.ReloadState(ctx)
	for addr, pipe := range b.pipes {
		if pipe.Len() == 0 {
			delete(b.pipes, addr)
		}
	}
	return nil
}

// Sync sends every queued command and waits for all replies. It returns the
// error of the first failed command in queue order; missing keys (Nil) are not
// failures.
func (b *Batch) Sync(ctx context.Context) error {
	cmds, err := b.exec(ctx)
	if err != nil {
		return err
	}
	return firstError(cmds)
}

// SyncAndReturnAll sends every queued command and returns one result per
// command, in queue order. A failed command's entry is its error and a missing
// key's entry is nil. The error result is the same as Sync's.
func (b *Batch) SyncAndReturnAll(ctx context.Context) ([]interface{}, error) {
	cmds, err := b.exec(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]interface{}, len(cmds))
	for i, cmd := range cmds {
		results[i] = cmdResult(cmd)
	}
	return results, firstError(cmds)
}

// exec flushes all node pipelines concurrently and returns the commands that
// were queued, in order. The queue is empty afterwards.
func (b *Batch) exec(ctx context.Context) ([]redis.Cmder, error) {
	if b.closed {
		return nil, ErrBatchClosed
	}

	start := time.Now()
	cmds := b.queued
	b.queued = nil

	var g errgroup.Group
	for addr, pipe := range b.pipes {
		if pipe.Len() == 0 {
			continue
		}
		addr, pipe := addr, pipe
		g.Go(func() error {
			nodeStart := time.Now()
			n := pipe.Len()
			_, err := pipe.Exec(ctx)
			if errors.Is(err, redis.Nil) {
				err = nil
			}
			b.client.observeBatch("batch_node", addr, nodeStart, err, n, nil)
			return err
		})
	}
	nodeErr := g.Wait()

	b.client.observeBatch("batch_sync", "", start, nodeErr, len(cmds), map[string]interface{}{
		"node_count": len(b.pipes),
	})
	return cmds, nil
}

// Close sends every command queued and not yet synced, then releases the
// batch. Replies are not returned; the first command error, if any, is. The
// batch can not be used afterwards. Close is idempotent.
func (b *Batch) Close() error {
	if b.closed {
		return nil
	}

	var err error
	if n := len(b.queued); n > 0 {
		cmds, _ := b.exec(context.Background())
		if err = firstError(cmds); err != nil {
			b.client.logWarn("Failed to flush batch on close", err, map[string]interface{}{
				"count": n,
			})
		}
	}

	b.closed = true
	b.pipes = nil
	b.queued = nil
	return err
}

func firstError(cmds []redis.Cmder) error {
	for _, cmd := range cmds {
		if err := cmd.Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
	}
	return nil
}

func cmdResult(cmd redis.Cmder) interface{} {
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	switch c := cmd.(type) {
	case *redis.StringCmd:
		return c.Val()
	case *redis.StatusCmd:
		return c.Val()
	case *redis.IntCmd:
		return c.Val()
	case *redis.BoolCmd:
		return c.Val()
	}
	return nil
}
