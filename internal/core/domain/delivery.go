// internal/core/domain/delivery.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus represents the lifecycle state of a delivery
type DeliveryStatus string

// Delivery status constants
const (
	DeliveryStatusPending         DeliveryStatus = "pending"
	DeliveryStatusInQuality       DeliveryStatus = "in_quality"
	DeliveryStatusApproved        DeliveryStatus = "approved"
	DeliveryStatusRejected        DeliveryStatus = "rejected"
	DeliveryStatusPartialApproved DeliveryStatus = "partial_approved"
	DeliveryStatusShipped         DeliveryStatus = "shipped"
)

// QualityStatus represents the review outcome of a single delivery item
type QualityStatus string

// Quality status constants
const (
	QualityStatusPending         QualityStatus = "pending"
	QualityStatusApproved        QualityStatus = "approved"
	QualityStatusRejected        QualityStatus = "rejected"
	QualityStatusPartialApproved QualityStatus = "partial_approved"
)

// QualityNotesPrefix is prepended to the general review notes stored on the delivery.
const QualityNotesPrefix = "Control de Calidad: "

// Delivery is one shipment of finished goods from a workshop against an order.
type Delivery struct {
	ID                 uuid.UUID      `json:"id" db:"id"`
	TrackingNumber     string         `json:"tracking_number" db:"tracking_number"`
	OrderID            uuid.UUID      `json:"order_id" db:"order_id"`
	WorkshopID         *uuid.UUID     `json:"workshop_id,omitempty" db:"workshop_id"`
	DeliveryDate       time.Time      `json:"delivery_date" db:"delivery_date"`
	Status             DeliveryStatus `json:"status" db:"status"`
	UserObservations   *string        `json:"user_observations,omitempty" db:"user_observations"`
	Notes              *string        `json:"notes,omitempty" db:"notes"`
	SyncedToShopify    bool           `json:"synced_to_shopify" db:"synced_to_shopify"`
	SyncAttempts       int            `json:"sync_attempts" db:"sync_attempts"`
	LastSyncAttempt    *time.Time     `json:"last_sync_attempt,omitempty" db:"last_sync_attempt"`
	SyncLockAcquiredAt *time.Time     `json:"sync_lock_acquired_at,omitempty" db:"sync_lock_acquired_at"`
	SyncLockAcquiredBy *string        `json:"sync_lock_acquired_by,omitempty" db:"sync_lock_acquired_by"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at" db:"updated_at"`

	// Populated by detail reads only
	Order    *Order         `json:"order,omitempty" db:"-"`
	Workshop *Workshop      `json:"workshop,omitempty" db:"-"`
	Items    []DeliveryItem `json:"items,omitempty" db:"-"`
	Files    []DeliveryFile `json:"files,omitempty" db:"-"`
}

// DeliveryItem is one line of a delivery, tied 1:1 to an order item.
type DeliveryItem struct {
	ID                uuid.UUID     `json:"id" db:"id"`
	DeliveryID        uuid.UUID     `json:"delivery_id" db:"delivery_id"`
	OrderItemID       uuid.UUID     `json:"order_item_id" db:"order_item_id"`
	QuantityDelivered int           `json:"quantity_delivered" db:"quantity_delivered"`
	QuantityApproved  int           `json:"quantity_approved" db:"quantity_approved"`
	QuantityDefective int           `json:"quantity_defective" db:"quantity_defective"`
	QualityStatus     QualityStatus `json:"quality_status" db:"quality_status"`
	QualityNotes      *string       `json:"quality_notes,omitempty" db:"quality_notes"`
	SyncedToShopify   bool          `json:"synced_to_shopify" db:"synced_to_shopify"`
	SyncAttemptCount  int           `json:"sync_attempt_count" db:"sync_attempt_count"`
	LastSyncAttempt   *time.Time    `json:"last_sync_attempt,omitempty" db:"last_sync_attempt"`
	SyncErrorMessage  *string       `json:"sync_error_message,omitempty" db:"sync_error_message"`

	// OrderItem -> ProductVariant chain, populated by detail reads
	OrderItem *OrderItem `json:"order_item,omitempty" db:"-"`
}

// SKU returns the variant SKU reachable through the order item chain, or "".
func (i *DeliveryItem) SKU() string {
	if i.OrderItem == nil || i.OrderItem.Variant == nil {
		return ""
	}
	return i.OrderItem.Variant.SKUVariant
}

// VariantID returns the product variant id of the item, if resolved.
func (i *DeliveryItem) VariantID() *uuid.UUID {
	if i.OrderItem == nil || i.OrderItem.Variant == nil {
		return nil
	}
	id := i.OrderItem.Variant.ID
	return &id
}

// ItemQualityStatus derives the per-item review status from the reviewed counts.
func ItemQualityStatus(approved, defective int) QualityStatus {
	switch {
	case approved > 0 && defective == 0:
		return QualityStatusApproved
	case defective > 0 && approved == 0:
		return QualityStatusRejected
	default:
		return QualityStatusPartialApproved
	}
}

// DeriveDeliveryStatus computes the aggregate delivery status from its items.
// Items are only counted, so the result does not depend on order.
func DeriveDeliveryStatus(items []DeliveryItem) DeliveryStatus {
	if len(items) == 0 {
		return DeliveryStatusPending
	}

	var approvedItems, defectiveItems, totalApproved, totalDefective int
	for _, item := range items {
		if item.QuantityApproved > 0 {
			approvedItems++
		}
		if item.QuantityDefective > 0 {
			defectiveItems++
		}
		totalApproved += item.QuantityApproved
		totalDefective += item.QuantityDefective
	}

	switch {
	case approvedItems == len(items) && totalDefective == 0:
		return DeliveryStatusApproved
	case defectiveItems == len(items) && totalApproved == 0:
		return DeliveryStatusRejected
	case totalApproved > 0 || totalDefective > 0:
		return DeliveryStatusPartialApproved
	default:
		return DeliveryStatusPending
	}
}

// IsValid reports whether s is a known delivery status
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusInQuality, DeliveryStatusApproved,
		DeliveryStatusRejected, DeliveryStatusPartialApproved, DeliveryStatusShipped:
		return true
	}
	return false
}

// CanEditQuantities reports whether delivered quantities may still change.
func (d *Delivery) CanEditQuantities() error {
	if d.SyncedToShopify {
		return fmt.Errorf("%w: delivery %s is already synced to shopify", ErrQuantityEditForbidden, d.TrackingNumber)
	}
	if d.Status != DeliveryStatusPending && d.Status != DeliveryStatusInQuality {
		return fmt.Errorf("%w: delivery %s is in status %s", ErrQuantityEditForbidden, d.TrackingNumber, d.Status)
	}
	return nil
}

// ApprovedSyncItems returns the items that carry approved units and a resolvable SKU.
func (d *Delivery) ApprovedSyncItems() []SyncItem {
	var items []SyncItem
	for i := range d.Items {
		item := &d.Items[i]
		sku := item.SKU()
		if item.QuantityApproved <= 0 || sku == "" {
			continue
		}
		syncItem := SyncItem{
			DeliveryItemID:   item.ID,
			SKUVariant:       sku,
			QuantityApproved: item.QuantityApproved,
			AttemptCount:     item.SyncAttemptCount,
		}
		if variantID := item.VariantID(); variantID != nil {
			syncItem.VariantID = *variantID
		}
		items = append(items, syncItem)
	}
	return items
}

// NewDelivery builds a pending delivery ready for insertion.
func NewDelivery(orderID uuid.UUID, workshopID *uuid.UUID, trackingNumber string, observations string) *Delivery {
	now := time.Now().UTC()
	d := &Delivery{
		ID:             uuid.New(),
		TrackingNumber: trackingNumber,
		OrderID:        orderID,
		WorkshopID:     workshopID,
		DeliveryDate:   now,
		Status:         DeliveryStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if observations != "" {
		d.UserObservations = &observations
	}
	return d
}

// DeliveryFilter narrows delivery listings
type DeliveryFilter struct {
	Status  DeliveryStatus
	OrderID *uuid.UUID
	Search  string
	Limit   int
	Offset  int
}

// Normalize applies listing defaults
func (f *DeliveryFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
