// internal/adapters/db/catalog_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// catalogRepository implements ports.CatalogRepository
type catalogRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *Database, logger *slog.Logger) ports.CatalogRepository {
	return &catalogRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "catalog")),
	}
}

// FindOrder returns nil when the order does not exist.
func (r *catalogRepository) FindOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT id, order_number, customer_name, created_at FROM orders WHERE id = $1`

	order := &domain.Order{}
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.OrderNumber, &order.CustomerName, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return order, nil
}

// FindWorkshop returns nil when the workshop does not exist.
func (r *catalogRepository) FindWorkshop(ctx context.Context, id uuid.UUID) (*domain.Workshop, error) {
	query := `SELECT id, name, phone, created_at FROM workshops WHERE id = $1`

	workshop := &domain.Workshop{}
	err := r.db.QueryRow(ctx, query, id).Scan(&workshop.ID, &workshop.Name, &workshop.Phone, &workshop.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find workshop: %w", err)
	}
	return workshop, nil
}

// FindOrderItems returns the order items among ids, with their variants.
func (r *catalogRepository) FindOrderItems(ctx context.Context, ids []uuid.UUID) ([]domain.OrderItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := psql.Select(
		"oi.id", "oi.order_id", "oi.product_variant_id", "oi.quantity",
		"pv.id", "pv.product_name", "pv.size", "pv.color", "pv.sku_variant",
	).
		From("order_items oi").
		Join("product_variants pv ON pv.id = oi.product_variant_id").
		Where(squirrel.Eq{"oi.id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		variant := &domain.ProductVariant{}
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductVariantID, &item.Quantity,
			&variant.ID, &variant.ProductName, &variant.Size, &variant.Color, &variant.SKUVariant,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		item.Variant = variant
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

// UpsertOrder inserts the order or updates it by order number, setting order.ID.
func (r *catalogRepository) UpsertOrder(ctx context.Context, order *domain.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	query := `
		INSERT INTO orders (id, order_number, customer_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_number) DO UPDATE SET customer_name = EXCLUDED.customer_name
		RETURNING id, created_at`

	if err := r.db.QueryRow(ctx, query, order.ID, order.OrderNumber, order.CustomerName).
		Scan(&order.ID, &order.CreatedAt); err != nil {
		return fmt.Errorf("failed to upsert order %s: %w", order.OrderNumber, err)
	}
	return nil
}

// UpsertWorkshop inserts or updates a workshop by id.
func (r *catalogRepository) UpsertWorkshop(ctx context.Context, workshop *domain.Workshop) error {
	if workshop.ID == uuid.Nil {
		workshop.ID = uuid.New()
	}
	query := `
		INSERT INTO workshops (id, name, phone)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, phone = EXCLUDED.phone
		RETURNING created_at`

	if err := r.db.QueryRow(ctx, query, workshop.ID, workshop.Name, workshop.Phone).
		Scan(&workshop.CreatedAt); err != nil {
		return fmt.Errorf("failed to upsert workshop %s: %w", workshop.Name, err)
	}
	return nil
}

// UpsertVariant inserts or updates a variant by SKU, setting variant.ID.
func (r *catalogRepository) UpsertVariant(ctx context.Context, variant *domain.ProductVariant) error {
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}
	query := `
		INSERT INTO product_variants (id, product_name, size, color, sku_variant)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sku_variant) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			size = EXCLUDED.size,
			color = EXCLUDED.color
		RETURNING id`

	if err := r.db.QueryRow(ctx, query,
		variant.ID, variant.ProductName, variant.Size, variant.Color, variant.SKUVariant,
	).Scan(&variant.ID); err != nil {
		return fmt.Errorf("failed to upsert variant %s: %w", variant.SKUVariant, err)
	}
	return nil
}

// UpsertOrderItem inserts or updates an order item by id.
func (r *catalogRepository) UpsertOrderItem(ctx context.Context, item *domain.OrderItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	query := `
		INSERT INTO order_items (id, order_id, product_variant_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET quantity = EXCLUDED.quantity`

	if _, err := r.db.Exec(ctx, query, item.ID, item.OrderID, item.ProductVariantID, item.Quantity); err != nil {
		return fmt.Errorf("failed to upsert order item: %w", err)
	}

	r.logger.DebugContext(ctx, "order item upserted",
		slog.String("order_item_id", item.ID.String()),
		slog.String("order_id", item.OrderID.String()))
	return nil
}
