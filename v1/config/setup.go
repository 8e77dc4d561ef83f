package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/jzy/redis-data/v1/redis"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ErrUnknownMode is returned for a Mode other than standalone, cluster or failover.
var ErrUnknownMode = errors.New("config: unknown redis mode")

// ErrUnknownCodec is returned for a Codec name that has no implementation.
var ErrUnknownCodec = errors.New("config: unknown codec")

// Load builds the configuration from the defaults, then the YAML file at path
// (skipped when path is empty), then environment variables. Durations are
// written as strings such as "3s" in both sources.
func Load(path string) (AppConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Nested sections are processed too; each field is looked up by its tag
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the mode and codec names.
func (c AppConfig) Validate() error {
	switch c.Mode {
	case redis.ModeStandalone, redis.ModeCluster, redis.ModeFailover:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, c.Mode)
	}
	if _, ok := redis.CodecByName(c.Codec); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCodec, c.Codec)
	}
	return nil
}

// NewRedisClient creates the client for the configured mode, with the
// configured codec and logger. No connection is made.
func (c AppConfig) NewRedisClient(log redis.Logger) (*redis.RedisClient, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	codec, _ := redis.CodecByName(c.Codec)

	switch c.Mode {
	case redis.ModeCluster:
		cfg := c.Cluster
		cfg.Codec, cfg.Logger = codec, log
		return redis.NewClusterClient(cfg)
	case redis.ModeFailover:
		cfg := c.Failover
		cfg.Codec, cfg.Logger = codec, log
		return redis.NewFailoverClient(cfg)
	}
	cfg := c.Redis
	cfg.Codec, cfg.Logger = codec, log
	return redis.NewClient(cfg)
}
