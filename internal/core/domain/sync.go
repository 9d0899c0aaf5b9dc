// internal/core/domain/sync.go
package domain

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
)

// VerificationStatus is the outcome recorded on a sync log batch
type VerificationStatus string

// Verification status constants
const (
	VerificationVerified VerificationStatus = "verified"
	VerificationFailed   VerificationStatus = "failed"
	VerificationPending  VerificationStatus = "pending"
)

// SyncItem is one approved delivery line offered to the external platform.
type SyncItem struct {
	DeliveryItemID   uuid.UUID `json:"delivery_item_id"`
	VariantID        uuid.UUID `json:"variant_id"`
	SKUVariant       string    `json:"sku_variant"`
	QuantityApproved int       `json:"quantity_approved"`
	AttemptCount     int       `json:"attempt_count,omitempty"`
}

// SyncItemResult is the per-SKU entry of a sync log batch.
type SyncItemResult struct {
	SKUVariant       string `json:"skuVariant,omitempty"`
	SKU              string `json:"sku,omitempty"`
	VariantID        string `json:"variantId,omitempty"`
	QuantityApproved int    `json:"quantityApproved,omitempty"`
	Success          bool   `json:"success"`
	Error            string `json:"error,omitempty"`
}

// Matches reports whether the entry refers to sku under either key.
func (r SyncItemResult) Matches(sku string) bool {
	return sku != "" && (r.SKUVariant == sku || r.SKU == sku)
}

// Key returns whichever SKU field the entry carries.
func (r SyncItemResult) Key() string {
	if r.SKUVariant != "" {
		return r.SKUVariant
	}
	return r.SKU
}

// SyncResults is the JSON document stored in inventory_sync_logs.sync_results
type SyncResults struct {
	Results []SyncItemResult `json:"results"`
}

// InventorySyncLog is one batch attempt against the external platform.
type InventorySyncLog struct {
	ID                 uuid.UUID          `json:"id" db:"id"`
	DeliveryID         uuid.UUID          `json:"delivery_id" db:"delivery_id"`
	SyncResults        SyncResults        `json:"sync_results" db:"sync_results"`
	VerificationStatus VerificationStatus `json:"verification_status" db:"verification_status"`
	SuccessCount       int                `json:"success_count" db:"success_count"`
	ErrorCount         int                `json:"error_count" db:"error_count"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
}

// NewSyncLog builds a log row from per-item results.
func NewSyncLog(deliveryID uuid.UUID, results []SyncItemResult, at time.Time) *InventorySyncLog {
	log := &InventorySyncLog{
		ID:          uuid.New(),
		DeliveryID:  deliveryID,
		SyncResults: SyncResults{Results: results},
		CreatedAt:   at,
	}
	for _, r := range results {
		if r.Success {
			log.SuccessCount++
		} else {
			log.ErrorCount++
		}
	}
	log.VerificationStatus = VerificationVerified
	if log.ErrorCount > 0 && log.SuccessCount == 0 {
		log.VerificationStatus = VerificationFailed
	}
	return log
}

// SkuSyncEvent is a single attempt outcome for one SKU, derived from a log entry.
type SkuSyncEvent struct {
	SKU          string
	LogID        uuid.UUID
	OccurredAt   time.Time
	Verification VerificationStatus
	ItemSuccess  bool
	Error        string
}

// SyncEventsFromLogs flattens logs into a chronological event stream.
// Logs with equal timestamps are ordered by id, matching ListByDelivery.
// Logs still pending verification carry no outcome and are skipped.
func SyncEventsFromLogs(logs []InventorySyncLog) []SkuSyncEvent {
	ordered := make([]InventorySyncLog, len(logs))
	copy(ordered, logs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return bytes.Compare(ordered[i].ID[:], ordered[j].ID[:]) < 0
	})

	var events []SkuSyncEvent
	for _, log := range ordered {
		if log.VerificationStatus != VerificationVerified && log.VerificationStatus != VerificationFailed {
			continue
		}
		for _, r := range log.SyncResults.Results {
			key := r.Key()
			if key == "" {
				continue
			}
			events = append(events, SkuSyncEvent{
				SKU:          key,
				LogID:        log.ID,
				OccurredAt:   log.CreatedAt,
				Verification: log.VerificationStatus,
				ItemSuccess:  r.Success,
				Error:        r.Error,
			})
		}
	}
	return events
}

// SkuSyncState summarizes where a SKU stands against the external platform
type SkuSyncState string

// SKU sync state constants
const (
	SkuStateSynced      SkuSyncState = "synced"
	SkuStateFailed      SkuSyncState = "failed"
	SkuStateNeverSynced SkuSyncState = "never_synced"
)

// SkuSyncStatus is the projected sync status of one SKU within a delivery.
type SkuSyncStatus struct {
	SKU           string       `json:"sku"`
	State         SkuSyncState `json:"state"`
	IsSynced      bool         `json:"is_synced"`
	NeedsSync     bool         `json:"needs_sync"`
	LastLogID     *uuid.UUID   `json:"last_log_id,omitempty"`
	LastAttemptAt *time.Time   `json:"last_attempt_at,omitempty"`
	LastError     string       `json:"last_error,omitempty"`
}

// ProjectSkuStatus folds the event stream into the status of sku.
// The latest event wins; on equal timestamps the later stream position wins.
func ProjectSkuStatus(events []SkuSyncEvent, sku string) SkuSyncStatus {
	var latest *SkuSyncEvent
	for i := range events {
		e := &events[i]
		if e.SKU != sku {
			continue
		}
		if latest == nil || !e.OccurredAt.Before(latest.OccurredAt) {
			latest = e
		}
	}

	status := SkuSyncStatus{SKU: sku}
	if latest == nil {
		status.State = SkuStateNeverSynced
		status.NeedsSync = true
		return status
	}

	logID := latest.LogID
	at := latest.OccurredAt
	status.LastLogID = &logID
	status.LastAttemptAt = &at

	if latest.Verification == VerificationVerified && latest.ItemSuccess {
		status.State = SkuStateSynced
		status.IsSynced = true
		return status
	}

	status.State = SkuStateFailed
	status.NeedsSync = true
	status.LastError = latest.Error
	return status
}

// ProjectSkuStatuses projects every sku in input order.
func ProjectSkuStatuses(logs []InventorySyncLog, skus []string) []SkuSyncStatus {
	events := SyncEventsFromLogs(logs)
	statuses := make([]SkuSyncStatus, 0, len(skus))
	for _, sku := range skus {
		statuses = append(statuses, ProjectSkuStatus(events, sku))
	}
	return statuses
}
