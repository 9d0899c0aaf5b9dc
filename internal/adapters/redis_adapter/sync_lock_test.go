package redis_a_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/ammerola/atelier-ops/internal/adapters/redis_adapter"
	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/test/helpers"
)

func newTestLock(t *testing.T, ttl time.Duration) (*redis_a.SyncLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redis_a.NewSyncLock(client, "atelier-test", ttl, helpers.TestLogger()), mr
}

func TestSyncLock_AcquireAndRelease(t *testing.T) {
	ctx := context.Background()
	lock, mr := newTestLock(t, time.Minute)
	deliveryID := uuid.New()

	token, err := lock.Acquire(ctx, deliveryID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, deliveryID, token.DeliveryID)
	assert.Equal(t, "user-1", token.Holder)
	assert.True(t, mr.Exists("atelier-test:synclock:"+deliveryID.String()))

	info, err := lock.Status(ctx, deliveryID)
	require.NoError(t, err)
	assert.True(t, info.IsHeld)
	require.NotNil(t, info.AcquiredBy)
	assert.Equal(t, "user-1", *info.AcquiredBy)
	assert.False(t, info.Expired)

	require.NoError(t, lock.Release(ctx, token))

	info, err = lock.Status(ctx, deliveryID)
	require.NoError(t, err)
	assert.False(t, info.IsHeld)
	assert.Nil(t, info.AcquiredBy)
}

func TestSyncLock_Contention(t *testing.T) {
	ctx := context.Background()
	lock, _ := newTestLock(t, time.Minute)
	deliveryID := uuid.New()

	_, err := lock.Acquire(ctx, deliveryID, "worker")
	require.NoError(t, err)

	_, err = lock.Acquire(ctx, deliveryID, "user-2")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLockHeld)

	var held *domain.LockHeldError
	require.True(t, errors.As(err, &held))
	assert.True(t, held.Info.IsHeld)
	require.NotNil(t, held.Info.AcquiredBy)
	assert.Equal(t, "worker", *held.Info.AcquiredBy)
}

func TestSyncLock_ReleaseByStaleToken(t *testing.T) {
	ctx := context.Background()
	lock, _ := newTestLock(t, time.Minute)
	deliveryID := uuid.New()

	first, err := lock.Acquire(ctx, deliveryID, "worker")
	require.NoError(t, err)
	require.NoError(t, lock.ForceRelease(ctx, deliveryID))

	second, err := lock.Acquire(ctx, deliveryID, "user-2")
	require.NoError(t, err)

	err = lock.Release(ctx, first)
	assert.ErrorIs(t, err, domain.ErrLockNotHeld)

	info, err := lock.Status(ctx, deliveryID)
	require.NoError(t, err)
	assert.True(t, info.IsHeld, "the newer holder keeps the lock")

	require.NoError(t, lock.Release(ctx, second))
}

func TestSyncLock_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	lock, mr := newTestLock(t, time.Minute)
	deliveryID := uuid.New()

	_, err := lock.Acquire(ctx, deliveryID, "worker")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = lock.Acquire(ctx, deliveryID, "user-2")
	assert.NoError(t, err)
}

func TestSyncLock_ReleaseNilToken(t *testing.T) {
	lock, _ := newTestLock(t, time.Minute)
	assert.NoError(t, lock.Release(context.Background(), nil))
}

func TestSyncLock_ForceReleaseWithoutHolder(t *testing.T) {
	lock, _ := newTestLock(t, 0)
	assert.NoError(t, lock.ForceRelease(context.Background(), uuid.New()))
}
