package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is a production order that deliveries are received against
type Order struct {
	ID           uuid.UUID `json:"id" db:"id"`
	OrderNumber  string    `json:"order_number" db:"order_number"`
	CustomerName *string   `json:"customer_name,omitempty" db:"customer_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Workshop is the external workshop that produced a delivery
type Workshop struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// OrderItem is one ordered variant line
type OrderItem struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	OrderID          uuid.UUID       `json:"order_id" db:"order_id"`
	ProductVariantID uuid.UUID       `json:"product_variant_id" db:"product_variant_id"`
	Quantity         int             `json:"quantity" db:"quantity"`
	Variant          *ProductVariant `json:"product_variant,omitempty" db:"-"`
}

// ProductVariant is a sellable variant identified by its SKU
type ProductVariant struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Size        *string   `json:"size,omitempty" db:"size"`
	Color       *string   `json:"color,omitempty" db:"color"`
	SKUVariant  string    `json:"sku_variant" db:"sku_variant"`
}
