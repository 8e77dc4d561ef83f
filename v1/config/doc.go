// Package config loads the application configuration for the redis-data
// packages: defaults, then an optional YAML file, then environment variables.
//
//	mode: cluster
//	codec: msgpack
//	cluster:
//	  addrs: ["192.168.1.136:7000", "192.168.1.137:7000"]
//	  key_prefix: tenant-a_
//	  pool:
//	    max_wait: 1s
//	logger:
//	  level: debug
//
// Every field can be overridden from the environment, e.g. REDIS_MODE,
// REDIS_CLUSTER_ADDRS (comma separated), REDIS_POOL_MAX_WAIT or ZAP_LOGGER_LEVEL.
package config
