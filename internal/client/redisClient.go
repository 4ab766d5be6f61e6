package client

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

type RedisCache struct {
	C *redis.Client
}

func NewRedisCache(addr string) *RedisCache {
	return &RedisCache{
		C: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.C.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.C.Close()
}

func (r *RedisCache) GetString(ctx context.Context, key string) (string, error) {
	s, err := r.C.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return s, err
}

func (r *RedisCache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.C.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	return r.C.Del(ctx, keys...).Err()
}
