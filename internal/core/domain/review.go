package domain

import (
	"time"

	"github.com/google/uuid"
)

// VariantReview is the reviewer's verdict for one delivery item.
type VariantReview struct {
	Approved  int    `json:"approved" validate:"gte=0"`
	Defective int    `json:"defective" validate:"gte=0"`
	Reason    string `json:"reason,omitempty"`
}

// ItemReview is the row update produced from a VariantReview.
type ItemReview struct {
	ItemID    uuid.UUID
	Approved  int
	Defective int
	Status    QualityStatus
	Notes     *string
}

// NewItemReview derives status and notes for one reviewed item.
// Notes fall back from the item reason to the general notes.
func NewItemReview(itemID uuid.UUID, v VariantReview, generalNotes string) ItemReview {
	review := ItemReview{
		ItemID:    itemID,
		Approved:  v.Approved,
		Defective: v.Defective,
		Status:    ItemQualityStatus(v.Approved, v.Defective),
	}
	switch {
	case v.Reason != "":
		notes := v.Reason
		review.Notes = &notes
	case generalNotes != "":
		notes := generalNotes
		review.Notes = &notes
	}
	return review
}

// ItemSyncAttempt is the bookkeeping written to a delivery item after a push.
type ItemSyncAttempt struct {
	ItemID uuid.UUID
	Synced bool
	Error  *string
	At     time.Time
}

// SyncRequest is the payload handed to the remote inventory sync function.
type SyncRequest struct {
	DeliveryID      uuid.UUID
	Items           []SyncItem
	IntelligentSync bool
}
