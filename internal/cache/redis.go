package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Checker-Finance/tradebook/internal/metrics"
)

// ResponseCache keeps rendered query responses in Redis. Keys are namespaced by the snapshot
// fingerprint, so replicas serving the same data share entries and a new dataset never reads
// stale ones. Concurrent misses for one key render once.
type ResponseCache struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// Options configures a Redis connection.
type Options struct {
	Addr     string
	DB       int
	Password string
}

// New connects to Redis and returns a cache namespaced under "tradebook:<fingerprint>:".
func New(opts Options, fingerprint string, ttl time.Duration, logger *zap.Logger) (*ResponseCache, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		DB:       opts.DB,
		Password: opts.Password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewWithClient(rdb, fingerprint, ttl, logger), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb *redis.Client, fingerprint string, ttl time.Duration, logger *zap.Logger) *ResponseCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseCache{
		redis:  rdb,
		prefix: "tradebook:" + fingerprint + ":",
		ttl:    ttl,
		logger: logger,
	}
}

// Fetch returns the cached body for key, or renders, stores and returns it.
// Redis failures degrade to rendering; render errors are returned and not cached.
func (c *ResponseCache) Fetch(ctx context.Context, key string, render func() ([]byte, error)) ([]byte, error) {
	full := c.prefix + key

	data, err := c.redis.Get(ctx, full).Bytes()
	switch {
	case err == nil:
		metrics.IncCache("hit")
		return data, nil
	case errors.Is(err, redis.Nil):
		metrics.IncCache("miss")
	default:
		metrics.IncCache("error")
		c.logger.Warn("cache.get_failed", zap.String("key", full), zap.Error(err))
	}

	v, err, _ := c.group.Do(full, func() (any, error) {
		body, err := render()
		if err != nil {
			return nil, err
		}
		if err := c.redis.Set(ctx, full, body, c.ttl).Err(); err != nil {
			metrics.IncCache("error")
			c.logger.Warn("cache.set_failed", zap.String("key", full), zap.Error(err))
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *ResponseCache) HealthCheck(ctx context.Context) error {
	if c.redis == nil {
		return fmt.Errorf("redis not initialized")
	}
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *ResponseCache) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
