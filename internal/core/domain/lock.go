package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Lock timing defaults
const (
	DefaultSyncLockTTL = 15 * time.Minute
	StaleSyncLockAge   = time.Hour
)

// LockToken proves ownership of a delivery sync lock.
type LockToken struct {
	DeliveryID uuid.UUID `json:"delivery_id"`
	Holder     string    `json:"holder"`
	Value      string    `json:"value"`
	AcquiredAt time.Time `json:"acquired_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// LockInfo describes the current state of a delivery sync lock.
type LockInfo struct {
	DeliveryID     uuid.UUID  `json:"delivery_id"`
	IsHeld         bool       `json:"is_locked"`
	AcquiredAt     *time.Time `json:"lock_acquired_at,omitempty"`
	AcquiredBy     *string    `json:"lock_acquired_by,omitempty"`
	Expired        bool       `json:"expired"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
}

// LockHeldError is returned by an acquire attempt that lost to another holder.
type LockHeldError struct {
	Info LockInfo
}

func (e *LockHeldError) Error() string {
	holder := "unknown"
	if e.Info.AcquiredBy != nil {
		holder = *e.Info.AcquiredBy
	}
	since := "unknown"
	if e.Info.AcquiredAt != nil {
		since = e.Info.AcquiredAt.Format(time.RFC3339)
	}
	return fmt.Sprintf("sync lock for delivery %s held by %s since %s", e.Info.DeliveryID, holder, since)
}

func (e *LockHeldError) Is(target error) bool {
	return target == ErrLockHeld
}
