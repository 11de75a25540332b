package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisLocker(client), mr
}

func TestAcquire_SecondHolderBlocked(t *testing.T) {
	locker, _ := setupLocker(t)
	ctx := context.Background()

	lease, acquired, err := locker.Acquire(ctx, "daily-sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)
	require.NotNil(t, lease)

	// While the lease is held, a second acquire is refused.
	second, acquired, err := locker.Acquire(ctx, "daily-sweep", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)
	assert.Nil(t, second)
}

func TestAcquire_IndependentNames(t *testing.T) {
	locker, _ := setupLocker(t)
	ctx := context.Background()

	_, acquired, err := locker.Acquire(ctx, "job-a", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	_, acquired, err = locker.Acquire(ctx, "job-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRelease_AfterAtLeastDeletesKey(t *testing.T) {
	locker, mr := setupLocker(t)
	ctx := context.Background()

	lease, acquired, err := locker.Acquire(ctx, "daily-sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	// atLeast already elapsed: the key goes away and the lock is free.
	require.NoError(t, lease.Release(ctx, 0))
	assert.False(t, mr.Exists("scheduler-lock:daily-sweep"))

	_, acquired, err = locker.Acquire(ctx, "daily-sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRelease_EarlyKeepsKeyForAtLeast(t *testing.T) {
	locker, mr := setupLocker(t)
	ctx := context.Background()

	lease, acquired, err := locker.Acquire(ctx, "daily-sweep", time.Hour)
	require.NoError(t, err)
	require.True(t, acquired)

	// The job finished instantly but the lease must hold for 30 minutes:
	// the key survives with a shortened expiry instead of being deleted.
	require.NoError(t, lease.Release(ctx, 30*time.Minute))
	require.True(t, mr.Exists("scheduler-lock:daily-sweep"))

	ttl := mr.TTL("scheduler-lock:daily-sweep")
	assert.Greater(t, ttl, 25*time.Minute)
	assert.LessOrEqual(t, ttl, 30*time.Minute)

	// Still held from any other instance's point of view.
	_, acquired, err = locker.Acquire(ctx, "daily-sweep", time.Hour)
	require.NoError(t, err)
	assert.False(t, acquired)

	// Once the remainder expires the lock frees itself.
	mr.FastForward(31 * time.Minute)
	_, acquired, err = locker.Acquire(ctx, "daily-sweep", time.Hour)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRelease_DoesNotTouchSuccessorLease(t *testing.T) {
	locker, mr := setupLocker(t)
	ctx := context.Background()

	lease, acquired, err := locker.Acquire(ctx, "daily-sweep", 50*time.Millisecond)
	require.NoError(t, err)
	require.True(t, acquired)

	// The first lease expires and another instance takes over.
	mr.FastForward(100 * time.Millisecond)
	successor, acquired, err := locker.Acquire(ctx, "daily-sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	// A stale release must not delete the successor's key.
	require.NoError(t, lease.Release(ctx, 0))
	assert.True(t, mr.Exists("scheduler-lock:daily-sweep"))

	require.NoError(t, successor.Release(ctx, 0))
	assert.False(t, mr.Exists("scheduler-lock:daily-sweep"))
}
