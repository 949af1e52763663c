package cache

import (
	"context"
	"errors"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

const redisKeyPrefix = "signals:"

// RedisSignalCache keeps signals in Redis with a TTL.
type RedisSignalCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SignalCache = (*RedisSignalCache)(nil)

// NewRedisSignalCache connects using a redis:// URL.
func NewRedisSignalCache(url string, ttl time.Duration) (*RedisSignalCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, eris.Wrap(err, "redis signal cache: parse url")
	}
	return NewRedisSignalCacheFromClient(redis.NewClient(opts), ttl), nil
}

func NewRedisSignalCacheFromClient(client *redis.Client, ttl time.Duration) *RedisSignalCache {
	return &RedisSignalCache{client: client, ttl: ttl}
}

func (c *RedisSignalCache) Get(ctx context.Context, key string) (_ domain.Signals, err error) {
	defer obs.Time(ctx, "signals.cache.redis.Get")(&err)

	b, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Signals{}, ports.ErrCacheMiss
	}
	if err != nil {
		return domain.Signals{}, eris.Wrapf(err, "redis signal cache: get %s", key)
	}
	return decodeSignals(b)
}

func (c *RedisSignalCache) Put(ctx context.Context, key string, s domain.Signals) (err error) {
	defer obs.Time(ctx, "signals.cache.redis.Put")(&err)

	b, err := encodeSignals(s)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, b, c.ttl).Err(); err != nil {
		return eris.Wrapf(err, "redis signal cache: set %s", key)
	}
	return nil
}

func (c *RedisSignalCache) Close() error {
	return c.client.Close()
}
