package cache

import (
	"context"
	"time"

	redisrepo "go-sysadmin/internal/repository/redis"
)

// RedisAdapter 把 redis 客户端适配为 Cache，作为 L2 使用。
type RedisAdapter struct{ c *redisrepo.Client }

func NewRedisAdapter(c *redisrepo.Client) *RedisAdapter { return &RedisAdapter{c: c} }

func (r *RedisAdapter) Get(ctx context.Context, key string) (string, error) {
	return r.c.Get(ctx, key), nil
}

func (r *RedisAdapter) SetEX(ctx context.Context, key, val string, ttl time.Duration) error {
	return r.c.SetTTL(ctx, key, val, ttl)
}

func (r *RedisAdapter) Del(ctx context.Context, keys ...string) error {
	r.c.Del(ctx, keys...)
	return nil
}

// RemainingTTL 实现 TTLFetcher；-2 不存在 / -1 永久 均视为无 TTL。
func (r *RedisAdapter) RemainingTTL(ctx context.Context, key string) (time.Duration, bool) {
	res := r.c.Client.TTL(ctx, key)
	if res.Err() != nil || res.Val() <= 0 {
		return 0, false
	}
	return res.Val(), true
}
