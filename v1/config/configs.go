package config

import (
	"github.com/jzy/redis-data/v1/logger"
	"github.com/jzy/redis-data/v1/metrics"
	"github.com/jzy/redis-data/v1/redis"
	"github.com/jzy/redis-data/v1/tracer"
)

// AppConfig is the complete configuration of a process using this module.
// Only the section matching Mode is used to build the Redis client.
type AppConfig struct {
	// Mode selects the deployment: standalone, cluster or failover
	Mode redis.Mode `yaml:"mode" envconfig:"REDIS_MODE"`

	// Codec names the value codec for SetObject/GetObject: json, msgpack or proto
	Codec string `yaml:"codec" envconfig:"REDIS_CODEC"`

	Redis    redis.Config         `yaml:"redis"`
	Cluster  redis.ClusterConfig  `yaml:"cluster"`
	Failover redis.FailoverConfig `yaml:"failover"`

	Logger  logger.Config  `yaml:"logger"`
	Metrics metrics.Config `yaml:"metrics"`
	Tracer  tracer.Config  `yaml:"tracer"`
}

// Default returns the configuration used when neither a file nor the
// environment sets a value. Pool defaults are applied later by the redis
// constructors, per mode.
func Default() AppConfig {
	return AppConfig{
		Mode:  redis.ModeStandalone,
		Codec: "json",
		Redis: redis.Config{
			Addrs: []string{redis.DefaultAddr},
		},
		Logger: logger.Config{
			Level:       logger.Info,
			ServiceName: "redis-data",
		},
		Metrics: metrics.Config{
			Address:     metrics.DefaultMetricsAddress,
			ServiceName: "redis-data",
		},
		Tracer: tracer.Config{
			ServiceName: "redis-data",
		},
	}
}
