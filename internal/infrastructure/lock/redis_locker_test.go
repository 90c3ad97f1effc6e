package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/infrastructure/lock"
)

func TestRedisLocker_SegundoIntentoEsConflicto(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	locker := lock.NewRedisLocker(client, 0)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "lock:catalog-import", time.Minute)
	require.NoError(t, err)

	_, err = locker.Lock(ctx, "lock:catalog-import", time.Minute)
	require.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, unlock(ctx))
	unlock, err = locker.Lock(ctx, "lock:catalog-import", time.Minute)
	require.NoError(t, err)
	assert.NoError(t, unlock(ctx))
}

func TestRedisLocker_ExpiraPorTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	locker := lock.NewRedisLocker(client, 0)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "k", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	_, err = locker.Lock(ctx, "k", time.Second)
	require.NoError(t, err)
	// Liberar un candado ya expirado no es error.
	assert.NoError(t, unlock(ctx))
}
