package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"telewall/internal/common/metrics"
)

// Options is the connection part of the server config.
type Options struct {
	Addr        string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

// Client is the single redis connection shared by repositories, the cache and the payment worker.
type Client struct {
	*redis.Client
}

// Open connects and pings so a bad address fails at startup, not on the first request.
func Open(ctx context.Context, opts Options) (*Client, error) {
	if opts.Addr == "" {
		return nil, errors.New("empty redis addr")
	}
	c := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		PoolSize:    opts.PoolSize,
		DialTimeout: opts.DialTimeout,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return &Client{Client: c}, nil
}

// HealthCheck is used by the readiness probe.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// RegisterPoolMetrics exposes connection pool usage on /metrics.
func (c *Client) RegisterPoolMetrics() {
	gauge := func(name, help string, value func(*redis.PoolStats) uint32) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: "redis_pool",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(value(c.PoolStats())) })
	}

	for _, collector := range []prometheus.Collector{
		gauge("total_conns", "Connections in the pool.", func(s *redis.PoolStats) uint32 { return s.TotalConns }),
		gauge("idle_conns", "Idle connections in the pool.", func(s *redis.PoolStats) uint32 { return s.IdleConns }),
		gauge("timeouts", "Times a connection wait timed out.", func(s *redis.PoolStats) uint32 { return s.Timeouts }),
	} {
		var already prometheus.AlreadyRegisteredError
		if err := metrics.Registry.Register(collector); err != nil && !errors.As(err, &already) {
			panic(err)
		}
	}
}
