// internal/adapters/redis_adapter/sync_lock.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// releaseScript deletes the lock only while it still holds the caller's value.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// lockValue is the JSON stored under a lock key
type lockValue struct {
	Token      string    `json:"token"`
	Holder     string    `json:"holder"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// SyncLock keeps delivery sync locks in Redis with SET NX PX. Keys expire
// on their own, so an abandoned lock frees itself after the TTL.
type SyncLock struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

var _ ports.SyncLock = (*SyncLock)(nil)

// NewSyncLock creates a Redis-backed sync lock. prefix namespaces the keys.
func NewSyncLock(client redis.UniversalClient, prefix string, ttl time.Duration, logger *slog.Logger) *SyncLock {
	if ttl <= 0 {
		ttl = domain.DefaultSyncLockTTL
	}
	return &SyncLock{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "sync_lock"), slog.String("backend", "redis")),
		now:    time.Now,
	}
}

func (l *SyncLock) key(deliveryID uuid.UUID) string {
	key := BuildKey(PrefixSyncLock, deliveryID.String())
	if l.prefix != "" {
		key = l.prefix + ":" + key
	}
	return key
}

// Acquire takes the lock for holder or returns a *domain.LockHeldError.
func (l *SyncLock) Acquire(ctx context.Context, deliveryID uuid.UUID, holder string) (*domain.LockToken, error) {
	now := l.now().UTC()
	value := lockValue{Token: uuid.NewString(), Holder: holder, AcquiredAt: now}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode lock value: %w", err)
	}

	ok, err := l.client.SetNX(ctx, l.key(deliveryID), data, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	if !ok {
		info, err := l.Status(ctx, deliveryID)
		if err != nil {
			return nil, err
		}
		// held is still reported when the key vanished between SETNX and GET
		info.IsHeld = true
		return nil, &domain.LockHeldError{Info: *info}
	}

	l.logger.DebugContext(ctx, "sync lock acquired",
		slog.String("delivery_id", deliveryID.String()),
		slog.String("holder", holder))

	return &domain.LockToken{
		DeliveryID: deliveryID,
		Holder:     holder,
		Value:      string(data),
		AcquiredAt: now,
		ExpiresAt:  now.Add(l.ttl),
	}, nil
}

// Release frees the lock only if token still owns it.
func (l *SyncLock) Release(ctx context.Context, token *domain.LockToken) error {
	if token == nil {
		return nil
	}

	deleted, err := releaseScript.Run(ctx, l.client, []string{l.key(token.DeliveryID)}, token.Value).Int()
	if err != nil {
		return fmt.Errorf("failed to release sync lock: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w: delivery %s", domain.ErrLockNotHeld, token.DeliveryID)
	}
	return nil
}

// ForceRelease frees the lock whoever holds it.
func (l *SyncLock) ForceRelease(ctx context.Context, deliveryID uuid.UUID) error {
	n, err := l.client.Del(ctx, l.key(deliveryID)).Result()
	if err != nil {
		return fmt.Errorf("failed to force release sync lock: %w", err)
	}

	l.logger.InfoContext(ctx, "sync lock force released",
		slog.String("delivery_id", deliveryID.String()),
		slog.Bool("was_held", n > 0))
	return nil
}

// Status reports the current holder. Redis expires keys itself, so a
// returned lock is never expired.
func (l *SyncLock) Status(ctx context.Context, deliveryID uuid.UUID) (*domain.LockInfo, error) {
	info := &domain.LockInfo{DeliveryID: deliveryID}

	data, err := l.client.Get(ctx, l.key(deliveryID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return info, nil
		}
		return nil, fmt.Errorf("failed to check sync lock: %w", err)
	}

	var value lockValue
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to decode lock value: %w", err)
	}

	info.IsHeld = true
	info.AcquiredAt = &value.AcquiredAt
	info.AcquiredBy = &value.Holder
	return info, nil
}
