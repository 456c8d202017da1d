package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"barberboss/backend/internal/domain"
)

const DefaultRedisKey = "barberboss:settings"

// RedisCache shares the settings between server instances. Expiry is left to
// Redis.
type RedisCache struct {
	rdb redis.Cmdable
	key string
	ttl time.Duration
}

func NewRedisCache(rdb redis.Cmdable, key string, ttl time.Duration) *RedisCache {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisCache{rdb: rdb, key: key, ttl: clampTTL(ttl)}
}

func (c *RedisCache) Load(ctx context.Context) (domain.Settings, bool, error) {
	b, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Settings{}, false, nil
	}
	if err != nil {
		return domain.Settings{}, false, fmt.Errorf("redis get %s: %w", c.key, err)
	}

	var s domain.Settings
	if err := json.Unmarshal(b, &s); err != nil {
		return domain.Settings{}, false, fmt.Errorf("decode cached settings: %w", err)
	}
	s.ID = domain.SettingsID
	return s, true, nil
}

func (c *RedisCache) Store(ctx context.Context, s domain.Settings) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", c.key, err)
	}
	return nil
}
