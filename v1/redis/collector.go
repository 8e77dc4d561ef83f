package redis

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PoolCollector exports the connection pool statistics of a RedisClient as
// Prometheus metrics. Nothing is reported until the pool has been created.
//
// Example:
//
//	metricsClient.Registry.MustRegister(redis.NewPoolCollector(client, "myapp"))
type PoolCollector struct {
	client *RedisClient

	hits     *prometheus.Desc
	misses   *prometheus.Desc
	timeouts *prometheus.Desc
	total    *prometheus.Desc
	idle     *prometheus.Desc
	stale    *prometheus.Desc
}

var _ prometheus.Collector = (*PoolCollector)(nil)

// NewPoolCollector creates a collector for client. Metric names are
// <namespace>_redis_pool_*, and every metric carries the client's key prefix.
func NewPoolCollector(client *RedisClient, namespace string) *PoolCollector {
	labels := prometheus.Labels{"prefix": client.KeyPrefix(), "mode": string(client.Mode())}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "redis_pool", name), help, nil, labels)
	}

	return &PoolCollector{
		client:   client,
		hits:     desc("hits_total", "Number of times a free connection was found in the pool."),
		misses:   desc("misses_total", "Number of times a free connection was not found in the pool."),
		timeouts: desc("timeouts_total", "Number of times a wait for a connection timed out."),
		total:    desc("connections", "Number of connections in the pool."),
		idle:     desc("idle_connections", "Number of idle connections in the pool."),
		stale:    desc("stale_connections_total", "Number of stale connections removed from the pool."),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.timeouts
	ch <- c.total
	ch <- c.idle
	ch <- c.stale
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.client.PoolStats()
	if stats == nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(c.timeouts, prometheus.CounterValue, float64(stats.Timeouts))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(stats.TotalConns))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(stats.IdleConns))
	ch <- prometheus.MustNewConstMetric(c.stale, prometheus.CounterValue, float64(stats.StaleConns))
}
