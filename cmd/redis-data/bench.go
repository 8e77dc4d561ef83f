package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jzy/redis-data/v1/metrics"
	"github.com/jzy/redis-data/v1/redis"
	"github.com/jzy/redis-data/v1/tracer"
)

type benchOptions struct {
	keys        int
	pipeline    bool
	keep        bool
	metricsAddr string
}

func newBenchCmd(opts *options) *cobra.Command {
	bench := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time writing and reading a run of keys",
		Long: `bench writes --keys keys, reads them back and reports the elapsed time of both phases.
With --pipeline the keys go through one cross-node batch, otherwise one command per key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bench.keys <= 0 {
				return fmt.Errorf("--keys must be positive, got %d", bench.keys)
			}
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()
			return runBench(s, bench, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&bench.keys, "keys", 10000, "Number of keys to write and read")
	cmd.Flags().BoolVar(&bench.pipeline, "pipeline", true, "Use a batch instead of one command per key")
	cmd.Flags().BoolVar(&bench.keep, "keep", false, "Keep the benchmark keys afterwards")
	cmd.Flags().StringVar(&bench.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	return cmd
}

func runBench(s *session, opts *benchOptions, out io.Writer) error {
	tr, err := tracer.NewClient(s.cfg.Tracer, s.log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tr.Shutdown(shutdownCtx)
	}()
	s.client.WithHook(redis.NewTracingHook(tr.Provider()))

	m := metrics.NewMetrics(s.cfg.Metrics)
	s.client.WithObserver(m)
	m.MustRegister(redis.NewPoolCollector(s.client, s.cfg.Metrics.Namespace))
	if opts.metricsAddr != "" {
		m.Server.Addr = opts.metricsAddr
		go func() {
			if err := m.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Error("Metrics server failed", err, map[string]interface{}{"addr": opts.metricsAddr})
			}
		}()
		defer m.Server.Close()
	}

	keys := make([]string, opts.keys)
	for i := range keys {
		keys[i] = "bench:" + strconv.Itoa(i)
	}

	ctx, span := tr.StartSpan(s.ctx, "bench.write")
	start := time.Now()
	err = benchWrite(ctx, s.client, keys, opts.pipeline)
	elapsed := time.Since(start)
	if err != nil {
		tr.RecordErrorOnSpan(span, err)
		span.End()
		return fmt.Errorf("write phase: %w", err)
	}
	span.End()
	report(out, "write", len(keys), elapsed)

	ctx, span = tr.StartSpan(s.ctx, "bench.read")
	start = time.Now()
	hits, err := benchRead(ctx, s.client, keys, opts.pipeline)
	elapsed = time.Since(start)
	tr.SetAttributes(span, map[string]interface{}{"bench.hits": hits})
	if err != nil {
		tr.RecordErrorOnSpan(span, err)
		span.End()
		return fmt.Errorf("read phase: %w", err)
	}
	span.End()
	report(out, "read", len(keys), elapsed)
	fmt.Fprintf(out, "hits: %d/%d\n", hits, len(keys))

	if stats := s.client.PoolStats(); stats != nil {
		fmt.Fprintf(out, "pool: total=%d idle=%d hits=%d misses=%d timeouts=%d\n",
			stats.TotalConns, stats.IdleConns, stats.Hits, stats.Misses, stats.Timeouts)
	}

	if !opts.keep {
		b := s.client.Batch()
		defer b.Close()
		for _, key := range keys {
			b.Del(s.ctx, key)
		}
		if err := b.Sync(s.ctx); err != nil {
			return fmt.Errorf("cleanup: %w", err)
		}
	}
	return nil
}

func benchWrite(ctx context.Context, client *redis.RedisClient, keys []string, pipeline bool) error {
	if !pipeline {
		for i, key := range keys {
			if err := client.SetString(ctx, key, strconv.Itoa(i)); err != nil {
				return err
			}
		}
		return nil
	}

	b := client.Batch()
	defer b.Close()
	for i, key := range keys {
		b.Set(ctx, key, strconv.Itoa(i), 0)
	}
	return b.Sync(ctx)
}

func benchRead(ctx context.Context, client *redis.RedisClient, keys []string, pipeline bool) (int, error) {
	hits := 0
	if !pipeline {
		for _, key := range keys {
			_, err := client.GetString(ctx, key)
			if redis.IsNilError(err) {
				continue
			}
			if err != nil {
				return hits, err
			}
			hits++
		}
		return hits, nil
	}

	b := client.Batch()
	defer b.Close()
	for _, key := range keys {
		b.Get(ctx, key)
	}
	results, err := b.SyncAndReturnAll(ctx)
	if err != nil {
		return hits, err
	}
	for _, r := range results {
		if r != nil {
			hits++
		}
	}
	return hits, nil
}

func report(out io.Writer, phase string, n int, elapsed time.Duration) {
	rate := float64(n) / elapsed.Seconds()
	fmt.Fprintf(out, "%s: %d keys in %s (%.0f ops/s)\n", phase, n, elapsed.Round(time.Microsecond), rate)
}
