// Package cache stores JSON snapshots of read-mostly listings in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"telewall/internal/common/metrics"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

var lookups = metrics.NewCounterVec("cache", "lookups_total",
	"Cache reads by key family and result.", "family", "result")

type CacheService struct {
	redisClient *redis.Client
	prefix      string
}

func NewCacheService(redisClient *redis.Client, prefix string) *CacheService {
	return &CacheService{
		redisClient: redisClient,
		prefix:      prefix,
	}
}

func (c *CacheService) key(k string) string {
	return c.prefix + k
}

// family is the key up to its first colon: "store_items:true" counts as "store_items".
func family(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.redisClient.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		lookups.WithLabelValues(family(key), "miss").Inc()
		return ErrMiss
	case err != nil:
		lookups.WithLabelValues(family(key), "error").Inc()
		return err
	}
	lookups.WithLabelValues(family(key), "hit").Inc()
	return json.Unmarshal(data, dest)
}

func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.redisClient.Set(ctx, c.key(key), data, ttl).Err()
}

// DeletePattern drops every cached variant of a listing, e.g. "store_items:*".
func (c *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	iter := c.redisClient.Scan(ctx, 0, c.key(pattern), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return c.redisClient.Del(ctx, keys...).Err()
	}
	return nil
}

// GetOrSet reads key into dest, calling setter and caching its result on a miss.
// A failing cache read falls through to setter.
func (c *CacheService) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, setter func() (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}

	value, err := setter()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	// Кэш не критичен: ошибку записи игнорируем
	_ = c.redisClient.Set(ctx, c.key(key), data, ttl).Err()

	return json.Unmarshal(data, dest)
}
