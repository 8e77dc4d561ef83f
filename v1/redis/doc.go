// Package redis provides a key-prefixing convenience layer over go-redis for
// standalone, Sentinel and Cluster deployments.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - Client interface: Defines the contract for Redis operations
//   - RedisClient struct: Concrete implementation of the Client interface
//   - NewClient, NewClusterClient, NewFailoverClient: Return *RedisClient (concrete type)
//   - FX modules: Provide both *RedisClient and the Client interface
//
// Core Features:
//   - A fixed per-client key prefix applied to every key (the client identifier)
//   - Standard pool defaults for standalone and cluster deployments
//   - Lazy pool creation on first use, with fallback over the configured addresses
//   - Millisecond-precision expiry on SET, SET NX and EXPIRE
//   - Encoded values through JSON, MessagePack or protobuf codecs
//   - A cross-node Batch that pipelines commands per cluster master
//   - OpenTelemetry and logging hooks, a Prometheus pool collector and observer events
//
// # Basic Usage
//
//	client, err := redis.NewClient(redis.Config{
//		Addrs:     []string{"10.0.0.1:6379", "10.0.0.2:6379"},
//		KeyPrefix: "tenant-a_",
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	// Stored as "tenant-a_session:42"
//	err = client.SetString(ctx, "session:42", "payload")
//
//	value, err := client.GetString(ctx, "session:42")
//	if redis.IsNilError(err) {
//		// key does not exist
//	}
//
// No connection is made by the constructors. The first operation creates the
// pool under a lock: each address is tried in order and the first one that
// answers PING is kept. When none answers, the operation fails and the next
// operation tries again.
//
// # Pool Configuration
//
// Zero values in PoolConfig are filled from DefaultPoolConfig (standalone and
// Sentinel) or DefaultClusterPoolConfig (cluster); everything else is passed to
// go-redis unchanged. A negative MaxTotal, MaxIdle or MinIdle opts out of the
// default and leaves go-redis's own behaviour.
//
//	standalone: MaxTotal 150, MaxIdle 30, MinIdle 10, MaxWait 3s, timeouts 30s
//	cluster:    MaxTotal 100, MaxIdle 10, MinIdle 0,  MaxWait 1s, timeouts 2s
//
// # Expiry
//
// A positive live time sets a millisecond expiry; zero or negative stores the
// key without one. SetNX applies the expiry in the same SET NX PX command.
//
//	acquired, err := client.SetNXString(ctx, "lock:job", "worker-1", 30*time.Second)
//	ok, err := client.Expire(ctx, "session:42", redis.ExpireHour)
//
// # Cluster Batches
//
// Batch groups commands per owning master and flushes all node pipelines
// concurrently:
//
//	client, _ := redis.NewClusterClient(redis.ClusterConfig{
//		Addrs:     []string{"192.168.1.136:7000", "192.168.1.137:7000"},
//		KeyPrefix: "tenant-a_",
//	})
//
//	b := client.Batch()
//	defer b.Close()
//
//	for i := 0; i < 10000; i++ {
//		b.Set(ctx, strconv.Itoa(i), strconv.Itoa(i), 0)
//	}
//	if err := b.Sync(ctx); redis.IsRedirectError(err) {
//		// topology changed: Refresh and rebuild the batch
//	}
//
// Close sends whatever is still queued, so a batch that is never synced still
// writes its commands.
//
// Nothing is retried by this package; MaxRetries only configures go-redis.
//
// # Quiet Helpers
//
// Delete, LookupString and StoreString log failures through the configured
// Logger instead of returning them.
//
// # FX Module Integration
//
//	app := fx.New(
//		redis.ClusterFXModule, // or redis.FXModule, redis.FailoverFXModule
//		fx.Provide(
//			func() redis.ClusterConfig { return cfg.Cluster },
//			func(l *logger.LoggerClient) redis.Logger { return l },        // optional
//			func(m *metrics.Metrics) observability.Observer { return m }, // optional
//			func(t *tracer.Tracer) trace.TracerProvider { return t.Provider() }, // optional
//		),
//	)
//
// # Thread Safety
//
// RedisClient is safe for concurrent use. A Batch is not; use one per goroutine.
package redis
