// internal/adapters/db/delivery_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

var deliveryColumns = []string{
	"d.id", "d.tracking_number", "d.order_id", "d.workshop_id", "d.delivery_date", "d.status",
	"d.user_observations", "d.notes", "d.synced_to_shopify", "d.sync_attempts", "d.last_sync_attempt",
	"d.sync_lock_acquired_at", "d.sync_lock_acquired_by", "d.created_at", "d.updated_at",
}

// deliveryRepository implements ports.DeliveryRepository
type deliveryRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewDeliveryRepository creates a new delivery repository
func NewDeliveryRepository(db *Database, logger *slog.Logger) ports.DeliveryRepository {
	return &deliveryRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "delivery")),
	}
}

func scanDelivery(row pgx.Row, d *domain.Delivery, extra ...any) error {
	dest := []any{
		&d.ID, &d.TrackingNumber, &d.OrderID, &d.WorkshopID, &d.DeliveryDate, &d.Status,
		&d.UserObservations, &d.Notes, &d.SyncedToShopify, &d.SyncAttempts, &d.LastSyncAttempt,
		&d.SyncLockAcquiredAt, &d.SyncLockAcquiredBy, &d.CreatedAt, &d.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// GenerateTrackingNumber draws the next number from generate_delivery_number().
func (r *deliveryRepository) GenerateTrackingNumber(ctx context.Context) (string, error) {
	var number string
	if err := r.db.QueryRow(ctx, `SELECT generate_delivery_number()`).Scan(&number); err != nil {
		return "", fmt.Errorf("failed to generate delivery number: %w", err)
	}
	return number, nil
}

// Create inserts the delivery row
func (r *deliveryRepository) Create(ctx context.Context, d *domain.Delivery) error {
	query := `
		INSERT INTO deliveries (
			id, tracking_number, order_id, workshop_id, delivery_date, status,
			user_observations, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		d.ID, d.TrackingNumber, d.OrderID, d.WorkshopID, d.DeliveryDate, d.Status,
		d.UserObservations, d.Notes, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert delivery: %w", err)
	}

	r.logger.DebugContext(ctx, "delivery inserted",
		slog.String("delivery_id", d.ID.String()),
		slog.String("tracking_number", d.TrackingNumber))
	return nil
}

// CreateItems inserts all items in one transaction
func (r *deliveryRepository) CreateItems(ctx context.Context, items []domain.DeliveryItem) error {
	if len(items) == 0 {
		return nil
	}

	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		query := `
			INSERT INTO delivery_items (
				id, delivery_id, order_item_id, quantity_delivered,
				quantity_approved, quantity_defective, quality_status
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`

		for i := range items {
			batch.Queue(query,
				items[i].ID, items[i].DeliveryID, items[i].OrderItemID, items[i].QuantityDelivered,
				items[i].QuantityApproved, items[i].QuantityDefective, items[i].QualityStatus,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for i := range items {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to insert delivery item %d: %w", i, err)
			}
		}
		return nil
	})
}

// Delete hard-deletes a delivery; items, files and logs cascade.
func (r *deliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrDeliveryNotFound, id)
	}
	return nil
}

// FindByID returns the bare delivery row, or nil.
func (r *deliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Delivery, error) {
	return r.findOne(ctx, squirrel.Eq{"d.id": id})
}

// FindByTrackingNumber returns the delivery with that exact tracking number, or nil.
func (r *deliveryRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Delivery, error) {
	return r.findOne(ctx, squirrel.Eq{"d.tracking_number": trackingNumber})
}

func (r *deliveryRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*domain.Delivery, error) {
	query, args, err := psql.Select(deliveryColumns...).From("deliveries d").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	d := &domain.Delivery{}
	if err := scanDelivery(r.db.QueryRow(ctx, query, args...), d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find delivery: %w", err)
	}
	return d, nil
}

// FindWithItems loads the delivery with order, workshop, items with their
// variant chain, and files.
func (r *deliveryRepository) FindWithItems(ctx context.Context, id uuid.UUID) (*domain.Delivery, error) {
	query, args, err := psql.Select(deliveryColumns...).
		Columns("o.id", "o.order_number", "o.customer_name", "o.created_at").
		Columns("w.id", "w.name", "w.phone", "w.created_at").
		From("deliveries d").
		Join("orders o ON o.id = d.order_id").
		LeftJoin("workshops w ON w.id = d.workshop_id").
		Where(squirrel.Eq{"d.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	d := &domain.Delivery{}
	order := &domain.Order{}
	var (
		workshopID        *uuid.UUID
		workshopName      *string
		workshopPhone     *string
		workshopCreatedAt *time.Time
	)
	err = scanDelivery(r.db.QueryRow(ctx, query, args...), d,
		&order.ID, &order.OrderNumber, &order.CustomerName, &order.CreatedAt,
		&workshopID, &workshopName, &workshopPhone, &workshopCreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find delivery: %w", err)
	}
	d.Order = order
	if workshopID != nil {
		d.Workshop = &domain.Workshop{ID: *workshopID, Phone: workshopPhone}
		if workshopName != nil {
			d.Workshop.Name = *workshopName
		}
		if workshopCreatedAt != nil {
			d.Workshop.CreatedAt = *workshopCreatedAt
		}
	}

	if d.Items, err = r.findItems(ctx, id); err != nil {
		return nil, err
	}
	if d.Files, err = listFiles(ctx, r.db, id); err != nil {
		return nil, err
	}

	return d, nil
}

func (r *deliveryRepository) findItems(ctx context.Context, deliveryID uuid.UUID) ([]domain.DeliveryItem, error) {
	query := `
		SELECT
			di.id, di.delivery_id, di.order_item_id, di.quantity_delivered,
			di.quantity_approved, di.quantity_defective, di.quality_status, di.quality_notes,
			di.synced_to_shopify, di.sync_attempt_count, di.last_sync_attempt, di.sync_error_message,
			oi.id, oi.order_id, oi.product_variant_id, oi.quantity,
			pv.id, pv.product_name, pv.size, pv.color, pv.sku_variant
		FROM delivery_items di
		JOIN order_items oi ON oi.id = di.order_item_id
		LEFT JOIN product_variants pv ON pv.id = oi.product_variant_id
		WHERE di.delivery_id = $1
		ORDER BY pv.sku_variant NULLS LAST, di.id`

	rows, err := r.db.Query(ctx, query, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery items: %w", err)
	}
	defer rows.Close()

	var items []domain.DeliveryItem
	for rows.Next() {
		var item domain.DeliveryItem
		oi := &domain.OrderItem{}
		var (
			variantID   *uuid.UUID
			productName *string
			size, color *string
			sku         *string
		)
		if err := rows.Scan(
			&item.ID, &item.DeliveryID, &item.OrderItemID, &item.QuantityDelivered,
			&item.QuantityApproved, &item.QuantityDefective, &item.QualityStatus, &item.QualityNotes,
			&item.SyncedToShopify, &item.SyncAttemptCount, &item.LastSyncAttempt, &item.SyncErrorMessage,
			&oi.ID, &oi.OrderID, &oi.ProductVariantID, &oi.Quantity,
			&variantID, &productName, &size, &color, &sku,
		); err != nil {
			return nil, fmt.Errorf("failed to scan delivery item: %w", err)
		}
		if variantID != nil && sku != nil {
			oi.Variant = &domain.ProductVariant{ID: *variantID, Size: size, Color: color, SKUVariant: *sku}
			if productName != nil {
				oi.Variant.ProductName = *productName
			}
		}
		item.OrderItem = oi
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

// List returns a filtered page of deliveries and the total match count.
func (r *deliveryRepository) List(ctx context.Context, filter domain.DeliveryFilter) ([]domain.Delivery, int64, error) {
	qb := psql.Select(deliveryColumns...).From("deliveries d")

	if filter.Status != "" {
		qb = qb.Where(squirrel.Eq{"d.status": filter.Status})
	}
	if filter.OrderID != nil {
		qb = qb.Where(squirrel.Eq{"d.order_id": *filter.OrderID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"d.tracking_number": pattern},
			squirrel.ILike{"d.user_observations": pattern},
		})
	}

	query, args, err := qb.Column("COUNT(*) OVER()").
		OrderBy("d.created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	var (
		deliveries []domain.Delivery
		total      int64
	)
	for rows.Next() {
		var d domain.Delivery
		if err := scanDelivery(rows, &d, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return deliveries, total, nil
}

// StatusCounts returns the number of deliveries per status
func (r *deliveryRepository) StatusCounts(ctx context.Context) (map[domain.DeliveryStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM deliveries GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count deliveries: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.DeliveryStatus]int64)
	for rows.Next() {
		var status domain.DeliveryStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// UpdateItemReview writes the review verdict of one item of the delivery.
func (r *deliveryRepository) UpdateItemReview(ctx context.Context, deliveryID uuid.UUID, review domain.ItemReview) error {
	query := `
		UPDATE delivery_items SET
			quantity_approved = $3, quantity_defective = $4,
			quality_status = $5, quality_notes = $6, updated_at = NOW()
		WHERE id = $1 AND delivery_id = $2`

	tag, err := r.db.Exec(ctx, query, review.ItemID, deliveryID,
		review.Approved, review.Defective, review.Status, review.Notes)
	if err != nil {
		return fmt.Errorf("failed to update item review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrDeliveryItemNotFound, review.ItemID)
	}
	return nil
}

// UpdateItemQuantity sets quantity_delivered of one item of the delivery.
func (r *deliveryRepository) UpdateItemQuantity(ctx context.Context, deliveryID, itemID uuid.UUID, quantity int) error {
	query := `UPDATE delivery_items SET quantity_delivered = $3, updated_at = NOW() WHERE id = $1 AND delivery_id = $2`

	tag, err := r.db.Exec(ctx, query, itemID, deliveryID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrDeliveryItemNotFound, itemID)
	}
	return nil
}

// UpdateNotes overwrites the system notes; user observations are untouched.
func (r *deliveryRepository) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	return r.updateDelivery(ctx, id, map[string]any{"notes": notes})
}

// UpdateStatus sets the aggregate delivery status
func (r *deliveryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeliveryStatus) error {
	return r.updateDelivery(ctx, id, map[string]any{"status": status})
}

func (r *deliveryRepository) updateDelivery(ctx context.Context, id uuid.UUID, set map[string]any) error {
	query, args, err := psql.Update("deliveries").
		SetMap(set).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrDeliveryNotFound, id)
	}
	return nil
}

// RecordItemSyncAttempts writes the per-item outcome of a push in one transaction.
func (r *deliveryRepository) RecordItemSyncAttempts(ctx context.Context, deliveryID uuid.UUID, attempts []domain.ItemSyncAttempt) error {
	if len(attempts) == 0 {
		return nil
	}

	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		query := `
			UPDATE delivery_items SET
				synced_to_shopify = synced_to_shopify OR $3,
				sync_attempt_count = sync_attempt_count + 1,
				last_sync_attempt = $4,
				sync_error_message = $5,
				updated_at = NOW()
			WHERE id = $1 AND delivery_id = $2`

		for _, a := range attempts {
			batch.Queue(query, a.ItemID, deliveryID, a.Synced, a.At, a.Error)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for _, a := range attempts {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to record sync attempt for item %s: %w", a.ItemID, err)
			}
		}
		return nil
	})
}

// RecordDeliverySync bumps the delivery attempt counter. synced marks the
// delivery as fully synced; it never clears an earlier success.
func (r *deliveryRepository) RecordDeliverySync(ctx context.Context, id uuid.UUID, synced bool, at time.Time) error {
	query := `
		UPDATE deliveries SET
			synced_to_shopify = synced_to_shopify OR $2,
			sync_attempts = sync_attempts + 1,
			last_sync_attempt = $3,
			updated_at = NOW()
		WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id, synced, at); err != nil {
		return fmt.Errorf("failed to record delivery sync: %w", err)
	}
	return nil
}

// ListStaleLocked returns deliveries whose lock was taken before olderThan.
func (r *deliveryRepository) ListStaleLocked(ctx context.Context, olderThan time.Time) ([]domain.Delivery, error) {
	query, args, err := psql.Select(deliveryColumns...).
		From("deliveries d").
		Where(squirrel.NotEq{"d.sync_lock_acquired_at": nil}).
		Where(squirrel.Lt{"d.sync_lock_acquired_at": olderThan}).
		OrderBy("d.sync_lock_acquired_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query locked deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []domain.Delivery
	for rows.Next() {
		var d domain.Delivery
		if err := scanDelivery(rows, &d); err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

// ClearLockColumns nulls the lock bookkeeping columns of a delivery.
func (r *deliveryRepository) ClearLockColumns(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE deliveries SET sync_lock_acquired_at = NULL, sync_lock_acquired_by = NULL WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to clear lock columns: %w", err)
	}
	return nil
}
