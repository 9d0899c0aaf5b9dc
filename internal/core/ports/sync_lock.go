package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ammerola/atelier-ops/internal/core/domain"
)

// SyncLock guards a delivery against concurrent pushes to the external platform.
//
// Acquire returns a *domain.LockHeldError (matching domain.ErrLockHeld) when
// another holder owns an unexpired lock. Release only succeeds for the token
// that acquired the lock; ForceRelease is the administrative override.
type SyncLock interface {
	Acquire(ctx context.Context, deliveryID uuid.UUID, holder string) (*domain.LockToken, error)
	Release(ctx context.Context, token *domain.LockToken) error
	ForceRelease(ctx context.Context, deliveryID uuid.UUID) error
	Status(ctx context.Context, deliveryID uuid.UUID) (*domain.LockInfo, error)
}
