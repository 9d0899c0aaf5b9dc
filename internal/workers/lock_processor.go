// internal/workers/lock_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// LockProcessor releases sync locks abandoned by crashed syncs
type LockProcessor struct {
	sync   ports.InventorySyncService
	logger *slog.Logger
}

// NewLockProcessor creates a new lock processor
func NewLockProcessor(sync ports.InventorySyncService, logger *slog.Logger) *LockProcessor {
	return &LockProcessor{
		sync:   sync,
		logger: logger.With(slog.String("processor", "locks")),
	}
}

// ClearStaleLocks handles locks:clear_stale. Locks that fail to release are
// logged and picked up by the next sweep.
func (p *LockProcessor) ClearStaleLocks(ctx context.Context, _ *asynq.Task) error {
	ctx = domain.WithActor(ctx, domain.SystemActor)

	report, err := p.sync.ClearAllStaleLocks(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear stale locks: %w", err)
	}

	if len(report.Failed) > 0 {
		p.logger.WarnContext(ctx, "some stale locks were not released",
			slog.Int("failed", len(report.Failed)),
			slog.Any("delivery_ids", report.Failed))
	}

	p.logger.InfoContext(ctx, "stale lock sweep finished",
		slog.Int("found", report.Found),
		slog.Int("released", len(report.Released)))
	return nil
}
