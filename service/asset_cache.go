package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const assetCachePrefix = "asset:base64:"

// AssetCacheInterface stores encoded asset responses by storage path
type AssetCacheInterface interface {
	Get(ctx context.Context, path string) (string, bool, error)
	Set(ctx context.Context, path, encoded string) error
}

// RedisAssetCache keeps encoded assets in Redis with a fixed TTL
type RedisAssetCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisAssetCache connects to the Redis server at redisURL
func NewRedisAssetCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisAssetCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisAssetCache{client: client, ttl: ttl}, nil
}

// Ensure RedisAssetCache implements AssetCacheInterface
var _ AssetCacheInterface = (*RedisAssetCache)(nil)

func (c *RedisAssetCache) Get(ctx context.Context, path string) (string, bool, error) {
	val, err := c.client.Get(ctx, assetCachePrefix+path).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisAssetCache) Set(ctx context.Context, path, encoded string) error {
	return c.client.Set(ctx, assetCachePrefix+path, encoded, c.ttl).Err()
}

// Close releases the Redis connection pool
func (c *RedisAssetCache) Close() error {
	return c.client.Close()
}
