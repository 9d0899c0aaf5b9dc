// internal/core/ports/delivery_repository.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/atelier-ops/internal/core/domain"
)

// CatalogRepository resolves the orders, workshops and variants deliveries point at.
type CatalogRepository interface {
	FindOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindWorkshop(ctx context.Context, id uuid.UUID) (*domain.Workshop, error)
	// FindOrderItems returns the items that exist among ids; missing ids are simply absent.
	FindOrderItems(ctx context.Context, ids []uuid.UUID) ([]domain.OrderItem, error)

	UpsertOrder(ctx context.Context, order *domain.Order) error
	UpsertWorkshop(ctx context.Context, workshop *domain.Workshop) error
	UpsertVariant(ctx context.Context, variant *domain.ProductVariant) error
	UpsertOrderItem(ctx context.Context, item *domain.OrderItem) error
}

// DeliveryRepository defines the persistence port for deliveries and their items.
type DeliveryRepository interface {
	GenerateTrackingNumber(ctx context.Context) (string, error)

	Create(ctx context.Context, delivery *domain.Delivery) error
	CreateItems(ctx context.Context, items []domain.DeliveryItem) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*domain.Delivery, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Delivery, error)
	// FindWithItems loads items with their OrderItem -> ProductVariant chain and files.
	FindWithItems(ctx context.Context, id uuid.UUID) (*domain.Delivery, error)
	List(ctx context.Context, filter domain.DeliveryFilter) ([]domain.Delivery, int64, error)
	StatusCounts(ctx context.Context) (map[domain.DeliveryStatus]int64, error)

	UpdateItemReview(ctx context.Context, deliveryID uuid.UUID, review domain.ItemReview) error
	UpdateItemQuantity(ctx context.Context, deliveryID, itemID uuid.UUID, quantity int) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeliveryStatus) error

	RecordItemSyncAttempts(ctx context.Context, deliveryID uuid.UUID, attempts []domain.ItemSyncAttempt) error
	RecordDeliverySync(ctx context.Context, id uuid.UUID, synced bool, at time.Time) error

	ListStaleLocked(ctx context.Context, olderThan time.Time) ([]domain.Delivery, error)
	ClearLockColumns(ctx context.Context, id uuid.UUID) error
}

// DeliveryFileRepository stores attachment metadata.
type DeliveryFileRepository interface {
	Create(ctx context.Context, file *domain.DeliveryFile) error
	ListByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]domain.DeliveryFile, error)
}

// SyncLogRepository is the append-only journal of pushes to the external platform.
type SyncLogRepository interface {
	Append(ctx context.Context, log *domain.InventorySyncLog) error
	// ListByDelivery returns verified and failed logs, newest first.
	ListByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]domain.InventorySyncLog, error)
	HasRecentSuccessfulSync(ctx context.Context, deliveryID uuid.UUID, window time.Duration) (bool, error)
}
