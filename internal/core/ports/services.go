// internal/core/ports/services.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ammerola/atelier-ops/internal/core/domain"
)

// DeliveryService defines the application service port for the delivery lifecycle.
type DeliveryService interface {
	CreateDelivery(ctx context.Context, input CreateDeliveryInput) (*CreateDeliveryResult, error)
	ProcessQualityReview(ctx context.Context, deliveryID uuid.UUID, input QualityReviewInput) (*QualityReviewResult, error)
	UpdateDeliveryQuantities(ctx context.Context, deliveryID uuid.UUID, updates []QuantityUpdate) error
	DeleteDelivery(ctx context.Context, deliveryID uuid.UUID) error
	GetDelivery(ctx context.Context, deliveryID uuid.UUID) (*domain.Delivery, error)
	ListDeliveries(ctx context.Context, filter domain.DeliveryFilter) (*DeliveryList, error)
}

// InventorySyncService defines the port of the inventory sync coordinator.
type InventorySyncService interface {
	CheckSkuSyncStatus(ctx context.Context, deliveryID uuid.UUID, skus []string) ([]domain.SkuSyncStatus, error)
	CheckRecentSuccessfulSync(ctx context.Context, deliveryID uuid.UUID) (bool, error)
	SyncApprovedItems(ctx context.Context, data SyncData, onlyPending bool) (*domain.SyncResult, error)
	SyncDelivery(ctx context.Context, deliveryID uuid.UUID, onlyPending bool) (*domain.SyncResult, error)

	CheckSyncLockStatus(ctx context.Context, deliveryID uuid.UUID) (*domain.LockInfo, error)
	ClearSyncLock(ctx context.Context, deliveryID uuid.UUID) error
	ClearAllStaleLocks(ctx context.Context) (*StaleLockReport, error)
}

// EvidenceService uploads quality evidence for a delivery.
type EvidenceService interface {
	UploadEvidenceFiles(ctx context.Context, deliveryID uuid.UUID, files []domain.FileUpload, description string) (*domain.UploadSummary, error)
	UploadInvoiceFiles(ctx context.Context, deliveryID uuid.UUID, files []domain.FileUpload) *domain.UploadSummary
}

// MessagingService answers delivery questions that arrive as free text.
type MessagingService interface {
	LookupDelivery(ctx context.Context, from, text string) (*DeliveryLookup, error)
	NotifyWorkshopReview(ctx context.Context, deliveryID uuid.UUID) error
}

// CreateDeliveryItemInput references an order item and the units received.
type CreateDeliveryItemInput struct {
	OrderItemID       uuid.UUID `json:"order_item_id" validate:"required"`
	QuantityDelivered int       `json:"quantity_delivered" validate:"gt=0"`
}

// CreateDeliveryInput holds everything needed to register a delivery.
type CreateDeliveryInput struct {
	OrderID    uuid.UUID                 `json:"order_id" validate:"required"`
	WorkshopID *uuid.UUID                `json:"workshop_id,omitempty"`
	Items      []CreateDeliveryItemInput `json:"items" validate:"required,min=1,dive"`
	Notes      string                    `json:"notes,omitempty"`
	Files      []domain.FileUpload       `json:"-"`
}

// CreateOutcome distinguishes the user-facing results of a creation
type CreateOutcome string

// Create outcomes
const (
	CreateOutcomeComplete     CreateOutcome = "complete"
	CreateOutcomePartialFiles CreateOutcome = "partial_files"
	CreateOutcomeNoFiles      CreateOutcome = "no_files"
)

// CreateDeliveryResult reports the created delivery and its file uploads.
type CreateDeliveryResult struct {
	Delivery *domain.Delivery     `json:"delivery"`
	Files    domain.UploadSummary `json:"files"`
	Outcome  CreateOutcome        `json:"outcome"`
	Message  string               `json:"message"`
}

// QualityReviewInput maps delivery item ids to the reviewer's verdict.
type QualityReviewInput struct {
	Variants      map[string]domain.VariantReview `json:"variants"`
	GeneralNotes  string                          `json:"general_notes,omitempty"`
	EvidenceFiles []domain.FileUpload             `json:"-"`
}

// ReviewOutcome distinguishes how a completed review ended
type ReviewOutcome string

// Review outcomes
const (
	ReviewOutcomeCompleted          ReviewOutcome = "completed"
	ReviewOutcomeSyncError          ReviewOutcome = "completed_with_sync_error"
	ReviewOutcomeSyncInProgress     ReviewOutcome = "completed_sync_in_progress"
	ReviewOutcomeNothingToSync      ReviewOutcome = "completed_nothing_to_sync"
	ReviewOutcomeSyncNeedsForcePush ReviewOutcome = "completed_sync_needs_force"
)

// QualityReviewResult is the consolidated outcome of a review.
type QualityReviewResult struct {
	Success       bool                  `json:"success"`
	DeliveryID    uuid.UUID             `json:"delivery_id"`
	Status        domain.DeliveryStatus `json:"status"`
	ItemsReviewed int                   `json:"items_reviewed"`
	Evidence      *domain.UploadSummary `json:"evidence,omitempty"`
	Sync          *domain.SyncResult    `json:"sync,omitempty"`
	SyncErrorKind domain.SyncErrorKind  `json:"sync_error_kind,omitempty"`
	Outcome       ReviewOutcome         `json:"outcome"`
	Message       string                `json:"message"`
	Warnings      []string              `json:"warnings,omitempty"`
}

// QuantityUpdate sets the delivered quantity of one item.
type QuantityUpdate struct {
	ItemID            uuid.UUID `json:"item_id" validate:"required"`
	QuantityDelivered int       `json:"quantity_delivered" validate:"gte=0"`
}

// SyncData is the input of a sync run.
type SyncData struct {
	DeliveryID     uuid.UUID         `json:"delivery_id"`
	TrackingNumber string            `json:"tracking_number,omitempty"`
	Items          []domain.SyncItem `json:"items"`
}

// StaleLockReport summarizes a stale lock sweep.
type StaleLockReport struct {
	Found    int         `json:"found"`
	Released []uuid.UUID `json:"released"`
	Failed   []uuid.UUID `json:"failed,omitempty"`
}

// DeliveryList holds a page of deliveries
type DeliveryList struct {
	Items      []domain.Delivery `json:"items"`
	TotalCount int64             `json:"total_count"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
}

// DeliveryLookup is the reply to a delivery code question.
type DeliveryLookup struct {
	Code           string                `json:"code"`
	Phone          string                `json:"phone,omitempty"`
	DeliveryID     uuid.UUID             `json:"delivery_id"`
	TrackingNumber string                `json:"tracking_number"`
	Status         domain.DeliveryStatus `json:"status"`
	Reply          string                `json:"reply"`
}
