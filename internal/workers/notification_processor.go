// internal/workers/notification_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/internal/pkg/logger"
)

// NotificationProcessor sends workshop review messages
type NotificationProcessor struct {
	messaging ports.MessagingService
	logger    *slog.Logger
}

// NewNotificationProcessor creates a new notification processor
func NewNotificationProcessor(messaging ports.MessagingService, logger *slog.Logger) *NotificationProcessor {
	return &NotificationProcessor{
		messaging: messaging,
		logger:    logger.With(slog.String("processor", "notification")),
	}
}

// ProcessWorkshopReview handles notify:workshop_review
func (p *NotificationProcessor) ProcessWorkshopReview(ctx context.Context, t *asynq.Task) error {
	var payload WorkshopNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	ctx = context.WithValue(ctx, logger.ContextKeyDeliveryID, payload.DeliveryID.String())

	if err := p.messaging.NotifyWorkshopReview(ctx, payload.DeliveryID); err != nil {
		if domain.IsNotFound(err) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to notify workshop: %w", err)
	}

	p.logger.InfoContext(ctx, "workshop notification processed",
		slog.String("delivery_id", payload.DeliveryID.String()))
	return nil
}
