// internal/adapters/db/sync_log_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// syncLogRepository implements ports.SyncLogRepository
type syncLogRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewSyncLogRepository creates a new sync log repository
func NewSyncLogRepository(db *Database, logger *slog.Logger) ports.SyncLogRepository {
	return &syncLogRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "sync_log")),
	}
}

// Append journals one push attempt. sync_results is stored as jsonb.
// created_at is stamped by the database and written back to log.
func (r *syncLogRepository) Append(ctx context.Context, log *domain.InventorySyncLog) error {
	query := `
		INSERT INTO inventory_sync_logs (
			id, delivery_id, sync_results, verification_status,
			success_count, error_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, clock_timestamp())
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		log.ID, log.DeliveryID, log.SyncResults, log.VerificationStatus,
		log.SuccessCount, log.ErrorCount,
	).Scan(&log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append sync log: %w", err)
	}

	r.logger.DebugContext(ctx, "sync log appended",
		slog.String("delivery_id", log.DeliveryID.String()),
		slog.String("verification_status", string(log.VerificationStatus)),
		slog.Int("success_count", log.SuccessCount),
		slog.Int("error_count", log.ErrorCount))
	return nil
}

// ListByDelivery returns verified and failed logs, newest first.
// Rows stamped in the same instant are ordered by id.
func (r *syncLogRepository) ListByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]domain.InventorySyncLog, error) {
	query, args, err := psql.Select(
		"id", "delivery_id", "sync_results", "verification_status",
		"success_count", "error_count", "created_at",
	).
		From("inventory_sync_logs").
		Where(squirrel.Eq{"delivery_id": deliveryID}).
		Where(squirrel.Eq{"verification_status": []string{
			string(domain.VerificationVerified), string(domain.VerificationFailed),
		}}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.InventorySyncLog
	for rows.Next() {
		var l domain.InventorySyncLog
		if err := rows.Scan(
			&l.ID, &l.DeliveryID, &l.SyncResults, &l.VerificationStatus,
			&l.SuccessCount, &l.ErrorCount, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sync log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return logs, nil
}

// HasRecentSuccessfulSync delegates to has_recent_successful_sync().
func (r *syncLogRepository) HasRecentSuccessfulSync(ctx context.Context, deliveryID uuid.UUID, window time.Duration) (bool, error) {
	minutes := int(math.Ceil(window.Minutes()))
	if minutes < 1 {
		minutes = 1
	}

	var recent bool
	if err := r.db.QueryRow(ctx, `SELECT has_recent_successful_sync($1, $2)`, deliveryID, minutes).Scan(&recent); err != nil {
		return false, fmt.Errorf("failed to check recent sync: %w", err)
	}
	return recent, nil
}
