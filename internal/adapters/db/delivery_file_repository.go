// internal/adapters/db/delivery_file_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// deliveryFileRepository implements ports.DeliveryFileRepository
type deliveryFileRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewDeliveryFileRepository creates a new delivery file repository
func NewDeliveryFileRepository(db *Database, logger *slog.Logger) ports.DeliveryFileRepository {
	return &deliveryFileRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "delivery_file")),
	}
}

// Create records the metadata of an uploaded file
func (r *deliveryFileRepository) Create(ctx context.Context, f *domain.DeliveryFile) error {
	query := `
		INSERT INTO delivery_files (
			id, delivery_id, file_name, file_url, file_type, file_size,
			page_count, file_category, uploaded_by, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		f.ID, f.DeliveryID, f.FileName, f.FileURL, f.FileType, f.FileSize,
		f.PageCount, f.FileCategory, f.UploadedBy, f.Notes, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert delivery file: %w", err)
	}

	r.logger.DebugContext(ctx, "delivery file recorded",
		slog.String("delivery_id", f.DeliveryID.String()),
		slog.String("file_name", f.FileName),
		slog.String("category", string(f.FileCategory)))
	return nil
}

// ListByDelivery returns the files of a delivery, oldest first
func (r *deliveryFileRepository) ListByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]domain.DeliveryFile, error) {
	return listFiles(ctx, r.db, deliveryID)
}

func listFiles(ctx context.Context, q ports.Querier, deliveryID uuid.UUID) ([]domain.DeliveryFile, error) {
	query := `
		SELECT id, delivery_id, file_name, file_url, file_type, file_size,
			page_count, file_category, uploaded_by, notes, created_at
		FROM delivery_files
		WHERE delivery_id = $1
		ORDER BY created_at, file_name`

	rows, err := q.Query(ctx, query, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery files: %w", err)
	}
	defer rows.Close()

	var files []domain.DeliveryFile
	for rows.Next() {
		var f domain.DeliveryFile
		if err := rows.Scan(
			&f.ID, &f.DeliveryID, &f.FileName, &f.FileURL, &f.FileType, &f.FileSize,
			&f.PageCount, &f.FileCategory, &f.UploadedBy, &f.Notes, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan delivery file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return files, nil
}
