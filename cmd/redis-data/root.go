package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jzy/redis-data/v1/config"
	"github.com/jzy/redis-data/v1/logger"
	"github.com/jzy/redis-data/v1/redis"
)

// options holds the persistent flags shared by all commands
type options struct {
	configPath string
	mode       string
	addrs      []string
	prefix     string
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "redis-data",
		Short:         "Prefixed Redis key operations and batch benchmarks",
		Long:          `redis-data runs key operations through the prefixing client and benchmarks cross-node batches.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.mode, "mode", "", "Deployment mode: standalone, cluster or failover")
	cmd.PersistentFlags().StringSliceVar(&opts.addrs, "addr", nil, "Redis address, repeatable (sentinels in failover mode)")
	cmd.PersistentFlags().StringVar(&opts.prefix, "prefix", "", "Key prefix (client identifier)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Command timeout")

	cmd.AddCommand(
		newGetCmd(opts),
		newSetCmd(opts),
		newSetNXCmd(opts),
		newDelCmd(opts),
		newExistsCmd(opts),
		newTypeCmd(opts),
		newExpireCmd(opts),
		newTTLCmd(opts),
		newSlotCmd(opts),
		newBenchCmd(opts),
	)
	return cmd
}

// load reads the configuration and applies the flag overrides.
func (o *options) load() (config.AppConfig, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}

	if o.mode != "" {
		cfg.Mode = redis.Mode(o.mode)
	}
	if len(o.addrs) > 0 {
		cfg.Redis.Addrs = o.addrs
		cfg.Cluster.Addrs = o.addrs
		cfg.Failover.SentinelAddrs = o.addrs
	}
	if o.prefix != "" {
		cfg.Redis.KeyPrefix = o.prefix
		cfg.Cluster.KeyPrefix = o.prefix
		cfg.Failover.KeyPrefix = o.prefix
	}
	return cfg, cfg.Validate()
}

// session is a configured client plus what it needs to be torn down.
type session struct {
	cfg    config.AppConfig
	log    *logger.LoggerClient
	client *redis.RedisClient
	ctx    context.Context
	cancel context.CancelFunc
}

func (o *options) open() (*session, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}

	log := logger.NewLoggerClient(cfg.Logger)
	client, err := cfg.NewRedisClient(log)
	if err != nil {
		return nil, err
	}
	client.WithHook(redis.NewLoggingHook(log))

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	return &session{cfg: cfg, log: log, client: client, ctx: ctx, cancel: cancel}, nil
}

func (s *session) Close() {
	s.cancel()
	if err := s.client.Close(); err != nil {
		s.log.Warn("Failed to close Redis client", err, nil)
	}
	_ = s.log.Zap.Sync()
}
