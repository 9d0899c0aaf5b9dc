// internal/core/services/messaging.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/internal/pkg/messaging"
)

var statusLabels = map[domain.DeliveryStatus]string{
	domain.DeliveryStatusPending:         "pendiente de revisión",
	domain.DeliveryStatusInQuality:       "en control de calidad",
	domain.DeliveryStatusApproved:        "aprobada",
	domain.DeliveryStatusRejected:        "rechazada",
	domain.DeliveryStatusPartialApproved: "aprobada parcialmente",
	domain.DeliveryStatusShipped:         "despachada",
}

func statusLabel(status domain.DeliveryStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// MessagingService answers delivery questions from chat messages and
// notifies workshops about review results.
type MessagingService struct {
	deliveries ports.DeliveryRepository
	catalog    ports.CatalogRepository
	sender     ports.MessageSender
	logger     *slog.Logger
}

var _ ports.MessagingService = (*MessagingService)(nil)

// NewMessagingService creates a new messaging service. A nil sender disables
// outgoing notifications.
func NewMessagingService(deliveries ports.DeliveryRepository, catalog ports.CatalogRepository,
	sender ports.MessageSender, logger *slog.Logger) *MessagingService {
	return &MessagingService{
		deliveries: deliveries,
		catalog:    catalog,
		sender:     sender,
		logger:     logger.With(slog.String("service", "messaging")),
	}
}

// LookupDelivery finds the delivery whose tracking number appears after
// "código" in text and composes a status reply.
func (s *MessagingService) LookupDelivery(ctx context.Context, from, text string) (*ports.DeliveryLookup, error) {
	code, ok := messaging.ExtractDeliveryCode(text)
	if !ok {
		return nil, domain.ErrNoDeliveryCode
	}

	phone, ok := messaging.NormalizeColombianPhone(from)
	if !ok && from != "" {
		s.logger.WarnContext(ctx, "ignoring unparseable sender phone", slog.String("from", from))
	}

	delivery, err := s.deliveries.FindByTrackingNumber(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find delivery: %w", err)
	}
	if delivery == nil {
		return nil, fmt.Errorf("%w: código %s", domain.ErrDeliveryNotFound, code)
	}

	reply := fmt.Sprintf("La entrega %s está %s.", delivery.TrackingNumber, statusLabel(delivery.Status))
	if delivery.SyncedToShopify {
		reply += " El inventario ya fue actualizado en la tienda."
	}

	s.logger.InfoContext(ctx, "delivery lookup answered",
		slog.String("tracking_number", delivery.TrackingNumber),
		slog.String("phone", phone))

	return &ports.DeliveryLookup{
		Code:           code,
		Phone:          phone,
		DeliveryID:     delivery.ID,
		TrackingNumber: delivery.TrackingNumber,
		Status:         delivery.Status,
		Reply:          reply,
	}, nil
}

// NotifyWorkshopReview texts the review result of a delivery to its workshop.
// Deliveries without a workshop, or workshops without a valid phone, are
// skipped.
func (s *MessagingService) NotifyWorkshopReview(ctx context.Context, deliveryID uuid.UUID) error {
	if s.sender == nil {
		return nil
	}

	logger := s.logger.With(slog.String("delivery_id", deliveryID.String()))

	delivery, err := s.deliveries.FindWithItems(ctx, deliveryID)
	if err != nil {
		return fmt.Errorf("failed to get delivery: %w", err)
	}
	if delivery == nil {
		return fmt.Errorf("%w: %s", domain.ErrDeliveryNotFound, deliveryID)
	}
	if delivery.WorkshopID == nil {
		logger.DebugContext(ctx, "delivery has no workshop, skipping notification")
		return nil
	}

	workshop := delivery.Workshop
	if workshop == nil {
		workshop, err = s.catalog.FindWorkshop(ctx, *delivery.WorkshopID)
		if err != nil {
			return fmt.Errorf("failed to get workshop: %w", err)
		}
	}
	if workshop == nil || workshop.Phone == nil {
		logger.WarnContext(ctx, "workshop has no phone, skipping notification")
		return nil
	}

	phone, ok := messaging.NormalizeColombianPhone(*workshop.Phone)
	if !ok {
		logger.WarnContext(ctx, "workshop phone is invalid, skipping notification",
			slog.String("workshop", workshop.Name))
		return nil
	}

	if err := s.sender.SendText(ctx, phone, reviewMessage(workshop.Name, delivery)); err != nil {
		return fmt.Errorf("failed to send workshop notification: %w", err)
	}

	logger.InfoContext(ctx, "workshop notified", slog.String("workshop", workshop.Name))
	return nil
}

func reviewMessage(workshop string, d *domain.Delivery) string {
	var approved, defective int
	for _, item := range d.Items {
		approved += item.QuantityApproved
		defective += item.QuantityDefective
	}
	return fmt.Sprintf("Hola %s, la entrega %s fue revisada: %s. Unidades aprobadas: %d, defectuosas: %d.",
		workshop, d.TrackingNumber, statusLabel(d.Status), approved, defective)
}
