package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis, for deployments where several
// analysis processes share one report cache.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(opts ...RedisOption) (*RedisStore, error) {
	cfg := &RedisConfig{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		PoolTimeout:  30 * time.Second,
		MinIdleConns: 5,
		Prefix:       "volanalysis",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	addr := cfg.Addr
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		PoolTimeout:  cfg.PoolTimeout,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{
		client: client,
		prefix: cfg.Prefix,
	}, nil
}

// Client returns underlying redis client.
func (c *RedisStore) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection.
func (c *RedisStore) Close() error {
	return c.client.Close()
}

func (c *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.client.Set(ctx, c.wrapKey(key), value, ttl)
}

func (c *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, c.wrapKey(key)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *RedisStore) Invalidate(ctx context.Context, prefix string) {
	keys, err := c.client.Keys(ctx, c.wrapKey(prefix)+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	c.client.Unlink(ctx, keys...)
}

func (c *RedisStore) wrapKey(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, key)
}
