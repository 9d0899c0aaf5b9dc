package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/atelier-ops/internal/core/domain"
)

// InventoryPusher calls the remote function that writes inventory to the
// external e-commerce platform. A lock conflict is reported as a
// domain.SyncInProgress outcome, not as an error.
type InventoryPusher interface {
	PushInventory(ctx context.Context, req domain.SyncRequest) (domain.SyncOutcome, error)
}

// MessageSender delivers plain text messages to a phone number.
type MessageSender interface {
	SendText(ctx context.Context, to string, body string) error
}

// TaskQueue schedules background work.
type TaskQueue interface {
	EnqueueDeliverySync(ctx context.Context, deliveryID uuid.UUID, delay time.Duration) error
	EnqueueWorkshopNotification(ctx context.Context, deliveryID uuid.UUID) error
}
