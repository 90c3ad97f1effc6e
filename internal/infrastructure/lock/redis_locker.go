// Package lock candados distribuidos sobre Redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/wms-api/internal/domain"
)

// RedisLocker implementa ports.Locker con bsm/redislock.
type RedisLocker struct {
	client *redislock.Client
	wait   time.Duration
}

// NewRedisLocker construye el locker. wait es cuánto se reintenta antes de rendirse (0 = un intento).
func NewRedisLocker(rdb redis.UniversalClient, wait time.Duration) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), wait: wait}
}

// Lock obtiene el candado key por ttl. Si otro proceso lo tiene, devuelve domain.ErrConflict.
func (l *RedisLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	opts := &redislock.Options{}
	if l.wait > 0 {
		retries := int(l.wait / (100 * time.Millisecond))
		opts.RetryStrategy = redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), retries)
	}
	lk, err := l.client.Obtain(ctx, key, ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: hay otra importación en curso", domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener candado %s: %w", key, err)
	}
	return func(ctx context.Context) error {
		if err := lk.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, nil
}
