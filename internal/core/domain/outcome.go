package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SyncSummary holds the counters reported by the remote sync function
type SyncSummary struct {
	Successful    int `json:"successful"`
	Failed        int `json:"failed"`
	AlreadySynced int `json:"already_synced"`
}

// SyncOutcome is the result of one push to the external platform.
// It is one of SyncSucceeded, SyncInProgress or SyncFailed.
type SyncOutcome interface {
	isSyncOutcome()
}

// SyncSucceeded means the batch was accepted; individual items may still have failed.
type SyncSucceeded struct {
	Summary     SyncSummary      `json:"summary"`
	Results     []SyncItemResult `json:"results,omitempty"`
	Diagnostics map[string]any   `json:"diagnostics,omitempty"`
}

// SyncInProgress means another sync holds the delivery lock.
type SyncInProgress struct {
	Lock           LockInfo `json:"lock"`
	TrackingNumber string   `json:"tracking_number,omitempty"`
}

// SyncFailed means the remote function rejected the batch.
type SyncFailed struct {
	Kind   SyncErrorKind `json:"kind"`
	Reason string        `json:"reason"`
}

func (SyncSucceeded) isSyncOutcome()  {}
func (SyncInProgress) isSyncOutcome() {}
func (SyncFailed) isSyncOutcome()     {}

// SyncErrorKind classifies sync failures for user messaging
type SyncErrorKind string

// Sync error kinds
const (
	SyncErrorRateLimited    SyncErrorKind = "rate_limited"
	SyncErrorSyncInProgress SyncErrorKind = "sync_in_progress"
	SyncErrorOther          SyncErrorKind = "other"
)

// SyncError is a classified sync failure.
type SyncError struct {
	Kind    SyncErrorKind
	Message string
	Err     error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inventory sync failed (%s): %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("inventory sync failed (%s): %s", e.Kind, e.Message)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// ClassifySyncError maps an arbitrary sync failure to a SyncErrorKind.
func ClassifySyncError(err error) SyncErrorKind {
	if err == nil {
		return ""
	}
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Kind
	}
	if errors.Is(err, ErrLockHeld) {
		return SyncErrorSyncInProgress
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "too many requests") || strings.Contains(msg, "429"):
		return SyncErrorRateLimited
	case strings.Contains(msg, "sync_in_progress") || strings.Contains(msg, "sync in progress"):
		return SyncErrorSyncInProgress
	default:
		return SyncErrorOther
	}
}

// SyncSkipReason explains why a sync finished without a network call
type SyncSkipReason string

// Skip reasons
const (
	SyncSkipNone           SyncSkipReason = ""
	SyncSkipAllSynced      SyncSkipReason = "all_already_synced"
	SyncSkipNeedsForce     SyncSkipReason = "previously_failed_force_needed"
	SyncSkipNothingToSync  SyncSkipReason = "no_approved_items"
	SyncSkipRecentlySynced SyncSkipReason = "recently_synced"
)

// SyncResult is what the sync coordinator reports back for one invocation.
type SyncResult struct {
	DeliveryID    uuid.UUID       `json:"delivery_id"`
	Outcome       SyncOutcome     `json:"-"`
	Skipped       SyncSkipReason  `json:"skipped,omitempty"`
	Pushed        []SyncItem      `json:"pushed,omitempty"`
	AlreadySynced []string        `json:"already_synced,omitempty"`
	FailedBefore  []string        `json:"failed_before,omitempty"`
	Statuses      []SkuSyncStatus `json:"statuses,omitempty"`
	Message       string          `json:"message"`
	Warnings      []string        `json:"warnings,omitempty"`
	CompletedAt   time.Time       `json:"completed_at"`
}

// InProgress reports whether the sync hit lock contention.
func (r *SyncResult) InProgress() bool {
	_, ok := r.Outcome.(SyncInProgress)
	return ok
}

// Succeeded reports whether a push happened and was accepted.
func (r *SyncResult) Succeeded() bool {
	_, ok := r.Outcome.(SyncSucceeded)
	return ok
}

// OutcomeName is a stable label for the outcome variant.
func (r *SyncResult) OutcomeName() string {
	switch r.Outcome.(type) {
	case SyncSucceeded:
		return "success"
	case SyncInProgress:
		return "in_progress"
	case SyncFailed:
		return "failure"
	default:
		if r.Skipped != SyncSkipNone {
			return "skipped"
		}
		return "unknown"
	}
}
