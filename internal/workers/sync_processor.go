// internal/workers/sync_processor.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/internal/pkg/logger"
)

// ErrSyncStillRunning makes asynq retry a sync that met a held lock
var ErrSyncStillRunning = errors.New("another sync holds the delivery lock")

// SyncProcessor retries inventory syncs in the background
type SyncProcessor struct {
	sync   ports.InventorySyncService
	logger *slog.Logger
}

// NewSyncProcessor creates a new sync processor
func NewSyncProcessor(sync ports.InventorySyncService, logger *slog.Logger) *SyncProcessor {
	return &SyncProcessor{
		sync:   sync,
		logger: logger.With(slog.String("processor", "sync")),
	}
}

// ProcessDeliverySync handles sync:delivery
func (p *SyncProcessor) ProcessDeliverySync(ctx context.Context, t *asynq.Task) error {
	var payload DeliverySyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	ctx = context.WithValue(ctx, logger.ContextKeyDeliveryID, payload.DeliveryID.String())
	ctx = domain.WithActor(ctx, domain.SystemActor)

	result, err := p.sync.SyncDelivery(ctx, payload.DeliveryID, payload.OnlyPending)
	if err != nil {
		if domain.IsNotFound(err) {
			p.logger.WarnContext(ctx, "delivery gone, dropping sync task",
				slog.String("delivery_id", payload.DeliveryID.String()))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to sync delivery: %w", err)
	}

	if result.InProgress() {
		p.logger.InfoContext(ctx, "sync in progress elsewhere, retrying later",
			slog.String("delivery_id", payload.DeliveryID.String()))
		return ErrSyncStillRunning
	}

	p.logger.InfoContext(ctx, "background sync finished",
		slog.String("delivery_id", payload.DeliveryID.String()),
		slog.String("outcome", result.OutcomeName()),
		slog.String("skipped", string(result.Skipped)),
		slog.Int("pushed", len(result.Pushed)))
	return nil
}
