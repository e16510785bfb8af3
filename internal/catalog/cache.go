package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "catalog:product:"

// RedisCache is a read-through product cache with a short TTL. Cart and order
// state are never stored here; only collaborator responses are.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps the redis client as a product cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached product or nil on a miss.
func (c *RedisCache) Get(ctx context.Context, id string) (*Product, error) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var product Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Set stores the product under its id for the configured TTL.
func (c *RedisCache) Set(ctx context.Context, product *Product) error {
	if product == nil || product.ID == "" {
		return nil
	}
	raw, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKeyPrefix+product.ID, raw, c.ttl).Err()
}
