package redis

import (
	"context"
	"encoding/json"
	"time"

	"pet-store-console/internal/ports/cache"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

// Open crea el cliente y valida conectividad.
func Open(redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}

	rdb := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return rdb, nil
}

// Cache implementa cache.Store sobre Redis (SET con EX).
type Cache struct {
	rdb    goredis.UniversalClient
	prefix string
}

func NewCache(rdb goredis.UniversalClient, prefix string) *Cache {
	return &Cache{rdb: rdb, prefix: prefix}
}

func (c *Cache) Get(ctx context.Context, key string, dst any) error {
	b, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return cache.ErrMiss
		}
		return errors.Wrapf(err, "redis get %s", key)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return errors.Wrapf(err, "redis decode %s", key)
	}
	return nil
}

func (c *Cache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "redis encode %s", key)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := c.rdb.Set(ctx, c.prefix+key, b, ttl).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", key)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.prefix+key).Err(); err != nil {
		return errors.Wrapf(err, "redis del %s", key)
	}
	return nil
}
