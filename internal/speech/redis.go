package speech

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "grammarflow:speech:"

// redisClient is the subset of *redis.Client used by RedisCache.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisCache shares synthesized audio between processes.
type RedisCache struct {
	client redisClient
	ttl    time.Duration
}

// NewRedisCache connects to the Redis server at url
// (e.g. redis://localhost:6379/0).
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Audio, bool, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	a, err := unmarshalAudio(data)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

func (c *RedisCache) Put(ctx context.Context, key string, audio *Audio) error {
	return c.client.Set(ctx, redisKeyPrefix+key, marshalAudio(audio), c.ttl).Err()
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	if closer, ok := c.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
