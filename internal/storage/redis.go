package storage

import (
	"context"
	"encoding/json"
	"time"

	"savoria/internal/domain"

	"github.com/redis/go-redis/v9"
)

const menuCacheKey = "menu:available"

// RedisMenuCache fronts the customer-facing available menu, the one
// read-mostly shared resource in the system.
type RedisMenuCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisMenuCache(client *redis.Client, ttl time.Duration) *RedisMenuCache {
	return &RedisMenuCache{Client: client, TTL: ttl}
}

func (c *RedisMenuCache) GetMenu(ctx context.Context) ([]domain.Dish, bool) {
	payload, err := c.Client.Get(ctx, menuCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var dishes []domain.Dish
	if err := json.Unmarshal(payload, &dishes); err != nil {
		return nil, false
	}
	return dishes, true
}

func (c *RedisMenuCache) SetMenu(ctx context.Context, dishes []domain.Dish) error {
	payload, err := json.Marshal(dishes)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, menuCacheKey, payload, c.TTL).Err()
}

func (c *RedisMenuCache) Invalidate(ctx context.Context) error {
	return c.Client.Del(ctx, menuCacheKey).Err()
}
