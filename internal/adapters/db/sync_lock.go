// internal/adapters/db/sync_lock.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// SyncLock stores the delivery sync lock in the lock columns of the
// deliveries table, through the *_delivery_sync_lock SQL functions.
type SyncLock struct {
	db     *Database
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.SyncLock = (*SyncLock)(nil)

// NewSyncLock creates a table-backed sync lock. Locks older than ttl are
// considered expired and may be taken over.
func NewSyncLock(db *Database, ttl time.Duration, logger *slog.Logger) *SyncLock {
	if ttl <= 0 {
		ttl = domain.DefaultSyncLockTTL
	}
	return &SyncLock{
		db:     db,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "sync_lock"), slog.String("backend", "postgres")),
	}
}

func (l *SyncLock) ttlMinutes() int {
	return int(math.Max(1, math.Ceil(l.ttl.Minutes())))
}

// Acquire takes the lock for holder or returns a *domain.LockHeldError.
func (l *SyncLock) Acquire(ctx context.Context, deliveryID uuid.UUID, holder string) (*domain.LockToken, error) {
	var (
		acquired   bool
		acquiredAt *time.Time
		acquiredBy *string
	)
	err := l.db.QueryRow(ctx, `SELECT acquired, acquired_at, acquired_by FROM acquire_delivery_sync_lock($1, $2, $3)`,
		deliveryID, holder, l.ttlMinutes()).Scan(&acquired, &acquiredAt, &acquiredBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDeliveryNotFound, deliveryID)
		}
		return nil, fmt.Errorf("failed to acquire sync lock: %w", err)
	}

	if !acquired {
		return nil, &domain.LockHeldError{Info: domain.LockInfo{
			DeliveryID: deliveryID,
			IsHeld:     true,
			AcquiredAt: acquiredAt,
			AcquiredBy: acquiredBy,
		}}
	}
	if acquiredAt == nil {
		return nil, fmt.Errorf("sync lock for delivery %s acquired without timestamp", deliveryID)
	}

	l.logger.DebugContext(ctx, "sync lock acquired",
		slog.String("delivery_id", deliveryID.String()),
		slog.String("holder", holder))

	return &domain.LockToken{
		DeliveryID: deliveryID,
		Holder:     holder,
		Value:      acquiredAt.UTC().Format(time.RFC3339Nano),
		AcquiredAt: *acquiredAt,
		ExpiresAt:  acquiredAt.Add(l.ttl),
	}, nil
}

// Release frees the lock only if token still owns it.
func (l *SyncLock) Release(ctx context.Context, token *domain.LockToken) error {
	if token == nil {
		return nil
	}

	var released bool
	err := l.db.QueryRow(ctx, `SELECT release_delivery_sync_lock($1, $2, $3)`,
		token.DeliveryID, token.Holder, token.AcquiredAt).Scan(&released)
	if err != nil {
		return fmt.Errorf("failed to release sync lock: %w", err)
	}
	if !released {
		return fmt.Errorf("%w: delivery %s", domain.ErrLockNotHeld, token.DeliveryID)
	}
	return nil
}

// ForceRelease frees the lock whoever holds it.
func (l *SyncLock) ForceRelease(ctx context.Context, deliveryID uuid.UUID) error {
	var released bool
	err := l.db.QueryRow(ctx, `SELECT release_delivery_sync_lock($1, NULL, NULL)`, deliveryID).Scan(&released)
	if err != nil {
		return fmt.Errorf("failed to force release sync lock: %w", err)
	}

	l.logger.InfoContext(ctx, "sync lock force released",
		slog.String("delivery_id", deliveryID.String()),
		slog.Bool("was_held", released))
	return nil
}

// Status reports the lock state through check_delivery_sync_lock().
func (l *SyncLock) Status(ctx context.Context, deliveryID uuid.UUID) (*domain.LockInfo, error) {
	info := &domain.LockInfo{DeliveryID: deliveryID}
	err := l.db.QueryRow(ctx,
		`SELECT is_locked, acquired_at, acquired_by, expired, tracking_number FROM check_delivery_sync_lock($1, $2)`,
		deliveryID, l.ttlMinutes(),
	).Scan(&info.IsHeld, &info.AcquiredAt, &info.AcquiredBy, &info.Expired, &info.TrackingNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDeliveryNotFound, deliveryID)
		}
		return nil, fmt.Errorf("failed to check sync lock: %w", err)
	}
	return info, nil
}
