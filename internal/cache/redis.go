package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewRedisCache accepts either a redis:// (or rediss://) URL or a bare
// host:port address.
// It does not dial; the first command (or the health check) does.
func NewRedisCache(redisURL string, ttl time.Duration, logger *zap.Logger) *RedisCache {
	opts := &redis.Options{
		Addr: redisURL,
		DB:   0,
	}
	// "redis:6379" parses as a URL with an empty host, so only strings with
	// a scheme separator are treated as URLs.
	if strings.Contains(redisURL, "://") {
		if parsed, err := redis.ParseURL(redisURL); err == nil {
			opts = parsed
		}
	}
	opts.MaxRetries = 3
	opts.MinRetryBackoff = 100 * time.Millisecond
	opts.MaxRetryBackoff = 500 * time.Millisecond

	logger.Info("Redis cache configured",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB),
		zap.Duration("ttl", ttl),
	)

	return &RedisCache{
		client: redis.NewClient(opts),
		ttl:    ttl,
		logger: logger.Sugar(),
	}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return data, err
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	n, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return err
	}
	r.logger.Debugw("Cache keys deleted", "keys", keys, "deleted", n)
	return nil
}

// Incr keeps no TTL on the counter.
func (r *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

// Client exposes the underlying client for health checks.
func (r *RedisCache) Client() *redis.Client {
	return r.client
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
