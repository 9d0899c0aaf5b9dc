// internal/core/services/delivery.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/internal/pkg/saga"
)

// DeliveryService handles the delivery lifecycle: creation, quality review,
// quantity edits and deletion.
type DeliveryService struct {
	deliveries ports.DeliveryRepository
	catalog    ports.CatalogRepository
	evidence   ports.EvidenceService
	sync       ports.InventorySyncService
	tasks      ports.TaskQueue
	logger     *slog.Logger
	cfg        DeliveryConfig
}

// DeliveryConfig tunes background follow-ups of the lifecycle.
type DeliveryConfig struct {
	// SyncRetryDelay is how long to wait before retrying a failed sync in the background.
	SyncRetryDelay time.Duration
	// NotifyWorkshops enqueues a WhatsApp notification after each review.
	NotifyWorkshops bool
}

var _ ports.DeliveryService = (*DeliveryService)(nil)

// NewDeliveryService creates a new delivery service. tasks may be nil, in
// which case no background follow-ups are scheduled.
func NewDeliveryService(
	deliveries ports.DeliveryRepository,
	catalog ports.CatalogRepository,
	evidence ports.EvidenceService,
	sync ports.InventorySyncService,
	tasks ports.TaskQueue,
	cfg DeliveryConfig,
	logger *slog.Logger,
) *DeliveryService {
	if cfg.SyncRetryDelay <= 0 {
		cfg.SyncRetryDelay = 5 * time.Minute
	}
	return &DeliveryService{
		deliveries: deliveries,
		catalog:    catalog,
		evidence:   evidence,
		sync:       sync,
		tasks:      tasks,
		cfg:        cfg,
		logger:     logger.With(slog.String("service", "delivery")),
	}
}

// CreateDelivery validates the referenced order and items, registers the
// delivery with its items and uploads invoice files.
func (s *DeliveryService) CreateDelivery(ctx context.Context, input ports.CreateDeliveryInput) (*ports.CreateDeliveryResult, error) {
	files := domain.FilterWellFormed(input.Files)
	if dropped := len(input.Files) - len(files); dropped > 0 {
		s.logger.WarnContext(ctx, "ignoring malformed uploads", slog.Int("count", dropped))
	}
	if err := resolveContentTypes(files); err != nil {
		return nil, err
	}
	if err := domain.ValidateInvoiceTypes(files); err != nil {
		return nil, err
	}
	for _, item := range input.Items {
		if item.QuantityDelivered < 0 {
			return nil, fmt.Errorf("%w: quantity delivered for order item %s is negative", domain.ErrInvalidQuantity, item.OrderItemID)
		}
	}

	order, err := s.catalog.FindOrder(ctx, input.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, input.OrderID)
	}

	workshopID := s.resolveWorkshop(ctx, input.WorkshopID)

	if err := s.validateOrderItems(ctx, input.Items); err != nil {
		return nil, err
	}

	trackingNumber, err := s.deliveries.GenerateTrackingNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tracking number: %w", err)
	}

	delivery := domain.NewDelivery(order.ID, workshopID, trackingNumber, input.Notes)
	items := make([]domain.DeliveryItem, len(input.Items))
	for i, in := range input.Items {
		items[i] = domain.DeliveryItem{
			ID:                uuid.New(),
			DeliveryID:        delivery.ID,
			OrderItemID:       in.OrderItemID,
			QuantityDelivered: in.QuantityDelivered,
			QualityStatus:     domain.QualityStatusPending,
		}
	}

	create := saga.New("create_delivery", s.logger).
		Add(saga.Step{
			Name:   "insert_delivery",
			Action: func(ctx context.Context) error { return s.deliveries.Create(ctx, delivery) },
			Compensate: func(ctx context.Context) error {
				return s.deliveries.Delete(ctx, delivery.ID)
			},
		}).
		Add(saga.Step{
			Name:   "insert_items",
			Action: func(ctx context.Context) error { return s.deliveries.CreateItems(ctx, items) },
		})

	if _, err := create.Run(ctx); err != nil {
		return nil, fmt.Errorf("failed to create delivery: %w", err)
	}
	delivery.Items = items

	s.logger.InfoContext(ctx, "delivery created",
		slog.String("delivery_id", delivery.ID.String()),
		slog.String("tracking_number", delivery.TrackingNumber),
		slog.String("order_number", order.OrderNumber),
		slog.Int("items", len(items)))

	result := &ports.CreateDeliveryResult{Delivery: delivery}
	if len(files) == 0 {
		result.Outcome = ports.CreateOutcomeNoFiles
		result.Message = fmt.Sprintf("Delivery %s created", delivery.TrackingNumber)
		return result, nil
	}

	summary := s.evidence.UploadInvoiceFiles(ctx, delivery.ID, files)
	result.Files = *summary
	delivery.Files = summary.Files

	if summary.Failed == 0 {
		result.Outcome = ports.CreateOutcomeComplete
		result.Message = fmt.Sprintf("Delivery %s created with %d file(s)", delivery.TrackingNumber, summary.Uploaded)
	} else {
		result.Outcome = ports.CreateOutcomePartialFiles
		result.Message = fmt.Sprintf("Delivery %s created; %d of %d file(s) failed to upload",
			delivery.TrackingNumber, summary.Failed, summary.Total())
	}

	return result, nil
}

func (s *DeliveryService) resolveWorkshop(ctx context.Context, id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	workshop, err := s.catalog.FindWorkshop(ctx, *id)
	if err != nil || workshop == nil {
		attrs := []any{slog.String("workshop_id", id.String())}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		s.logger.WarnContext(ctx, "workshop not found, creating delivery without it", attrs...)
		return nil
	}
	return &workshop.ID
}

func (s *DeliveryService) validateOrderItems(ctx context.Context, items []ports.CreateDeliveryItemInput) error {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]bool, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if !seen[item.OrderItemID] {
			seen[item.OrderItemID] = true
			ids = append(ids, item.OrderItemID)
		}
	}

	found, err := s.catalog.FindOrderItems(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to look up order items: %w", err)
	}

	existing := make(map[uuid.UUID]bool, len(found))
	for _, oi := range found {
		existing[oi.ID] = true
	}

	var missing []uuid.UUID
	for _, id := range ids {
		if !existing[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &domain.MissingOrderItemsError{IDs: missing}
	}
	return nil
}

// UpdateDeliveryQuantities edits delivered quantities while the delivery is
// still open. Updates are applied one by one; a failure leaves earlier
// updates in place.
func (s *DeliveryService) UpdateDeliveryQuantities(ctx context.Context, deliveryID uuid.UUID, updates []ports.QuantityUpdate) error {
	delivery, err := s.deliveries.FindByID(ctx, deliveryID)
	if err != nil {
		return fmt.Errorf("failed to get delivery: %w", err)
	}
	if delivery == nil {
		return fmt.Errorf("%w: %s", domain.ErrDeliveryNotFound, deliveryID)
	}
	if err := delivery.CanEditQuantities(); err != nil {
		return err
	}
	for _, u := range updates {
		if u.QuantityDelivered < 0 {
			return fmt.Errorf("%w: quantity for item %s is negative", domain.ErrInvalidQuantity, u.ItemID)
		}
	}

	for _, u := range updates {
		if err := s.deliveries.UpdateItemQuantity(ctx, deliveryID, u.ItemID, u.QuantityDelivered); err != nil {
			return fmt.Errorf("failed to update quantity for item %s: %w", u.ItemID, err)
		}
	}

	s.logger.InfoContext(ctx, "delivery quantities updated",
		slog.String("delivery_id", deliveryID.String()),
		slog.Int("count", len(updates)))

	return nil
}

// DeleteDelivery removes a delivery regardless of its review or sync state.
func (s *DeliveryService) DeleteDelivery(ctx context.Context, deliveryID uuid.UUID) error {
	if err := s.deliveries.Delete(ctx, deliveryID); err != nil {
		return fmt.Errorf("failed to delete delivery: %w", err)
	}

	s.logger.InfoContext(ctx, "delivery deleted",
		slog.String("delivery_id", deliveryID.String()),
		slog.String("actor", domain.ActorFromContext(ctx)))

	return nil
}

// GetDelivery returns a delivery with items, SKUs and files.
func (s *DeliveryService) GetDelivery(ctx context.Context, deliveryID uuid.UUID) (*domain.Delivery, error) {
	delivery, err := s.deliveries.FindWithItems(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}
	if delivery == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeliveryNotFound, deliveryID)
	}
	return delivery, nil
}

// ListDeliveries returns a filtered page of deliveries.
func (s *DeliveryService) ListDeliveries(ctx context.Context, filter domain.DeliveryFilter) (*ports.DeliveryList, error) {
	filter.Normalize()

	items, total, err := s.deliveries.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	if items == nil {
		items = []domain.Delivery{}
	}

	return &ports.DeliveryList{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}
