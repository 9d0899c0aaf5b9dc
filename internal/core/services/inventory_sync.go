// internal/core/services/inventory_sync.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// SyncConfig tunes the inventory sync coordinator.
type SyncConfig struct {
	RecentWindow        time.Duration
	StaleLockAge        time.Duration
	MaxAutoSyncAttempts int
	IntelligentSync     bool
}

// DefaultSyncConfig returns the production defaults.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		RecentWindow:        30 * time.Minute,
		StaleLockAge:        domain.StaleSyncLockAge,
		MaxAutoSyncAttempts: 3,
		IntelligentSync:     true,
	}
}

// InventorySyncService decides which approved delivery items still need to
// reach the external platform, pushes them under the delivery sync lock and
// journals every attempt.
type InventorySyncService struct {
	deliveries ports.DeliveryRepository
	logs       ports.SyncLogRepository
	lock       ports.SyncLock
	pusher     ports.InventoryPusher
	cfg        SyncConfig
	logger     *slog.Logger
	now        func() time.Time
}

var _ ports.InventorySyncService = (*InventorySyncService)(nil)

// NewInventorySyncService creates a new inventory sync coordinator
func NewInventorySyncService(
	deliveries ports.DeliveryRepository,
	logs ports.SyncLogRepository,
	lock ports.SyncLock,
	pusher ports.InventoryPusher,
	cfg SyncConfig,
	logger *slog.Logger,
) *InventorySyncService {
	defaults := DefaultSyncConfig()
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = defaults.RecentWindow
	}
	if cfg.StaleLockAge <= 0 {
		cfg.StaleLockAge = defaults.StaleLockAge
	}
	if cfg.MaxAutoSyncAttempts <= 0 {
		cfg.MaxAutoSyncAttempts = defaults.MaxAutoSyncAttempts
	}
	return &InventorySyncService{
		deliveries: deliveries,
		logs:       logs,
		lock:       lock,
		pusher:     pusher,
		cfg:        cfg,
		logger:     logger.With(slog.String("service", "inventory_sync")),
		now:        time.Now,
	}
}

// CheckSkuSyncStatus projects the sync journal of a delivery onto skus.
func (s *InventorySyncService) CheckSkuSyncStatus(ctx context.Context, deliveryID uuid.UUID, skus []string) ([]domain.SkuSyncStatus, error) {
	logs, err := s.logs.ListByDelivery(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sync logs: %w", err)
	}
	return domain.ProjectSkuStatuses(logs, skus), nil
}

// CheckRecentSuccessfulSync reports whether the delivery synced successfully within the recent window.
func (s *InventorySyncService) CheckRecentSuccessfulSync(ctx context.Context, deliveryID uuid.UUID) (bool, error) {
	recent, err := s.logs.HasRecentSuccessfulSync(ctx, deliveryID, s.cfg.RecentWindow)
	if err != nil {
		return false, fmt.Errorf("failed to check recent sync: %w", err)
	}
	return recent, nil
}

// SyncDelivery loads the approved items of a delivery and syncs them.
func (s *InventorySyncService) SyncDelivery(ctx context.Context, deliveryID uuid.UUID, onlyPending bool) (*domain.SyncResult, error) {
	delivery, err := s.deliveries.FindWithItems(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}
	if delivery == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeliveryNotFound, deliveryID)
	}

	return s.SyncApprovedItems(ctx, ports.SyncData{
		DeliveryID:     delivery.ID,
		TrackingNumber: delivery.TrackingNumber,
		Items:          delivery.ApprovedSyncItems(),
	}, onlyPending)
}

// SyncApprovedItems pushes approved items to the external platform. With
// onlyPending, SKUs already durably synced are skipped, and SKUs that kept
// failing are left for a forced sync.
//
// Lock contention is reported through a SyncInProgress outcome. Every other
// failure is returned as a *domain.SyncError.
func (s *InventorySyncService) SyncApprovedItems(ctx context.Context, data ports.SyncData, onlyPending bool) (*domain.SyncResult, error) {
	logger := s.logger.With(slog.String("delivery_id", data.DeliveryID.String()))
	result := &domain.SyncResult{DeliveryID: data.DeliveryID}

	if len(data.Items) == 0 {
		result.Skipped = domain.SyncSkipNothingToSync
		result.Message = "no approved items to sync"
		result.CompletedAt = s.now()
		return result, nil
	}

	candidates := data.Items
	if onlyPending {
		var err error
		candidates, err = s.pendingItems(ctx, data, result)
		if err != nil {
			return nil, &domain.SyncError{Kind: domain.SyncErrorOther, Message: "failed to check sku sync status", Err: err}
		}
		if len(candidates) == 0 {
			if len(result.FailedBefore) > 0 {
				result.Skipped = domain.SyncSkipNeedsForce
				result.Message = fmt.Sprintf("%d SKU(s) failed previously, a forced sync is needed", len(result.FailedBefore))
			} else {
				result.Skipped = domain.SyncSkipAllSynced
				result.Message = "all items are already synced"
			}
			result.CompletedAt = s.now()
			logger.InfoContext(ctx, "sync skipped", slog.String("reason", string(result.Skipped)))
			return result, nil
		}
	}

	token, err := s.lock.Acquire(ctx, data.DeliveryID, domain.ActorFromContext(ctx))
	if err != nil {
		var held *domain.LockHeldError
		if errors.As(err, &held) {
			return s.inProgress(ctx, result, domain.SyncInProgress{Lock: held.Info, TrackingNumber: data.TrackingNumber}), nil
		}
		return nil, &domain.SyncError{Kind: domain.SyncErrorOther, Message: "failed to acquire sync lock", Err: err}
	}
	defer s.releaseLock(ctx, token)

	outcome, err := s.pusher.PushInventory(ctx, domain.SyncRequest{
		DeliveryID:      data.DeliveryID,
		Items:           candidates,
		IntelligentSync: s.cfg.IntelligentSync,
	})
	if err != nil {
		return nil, s.pushFailed(ctx, data, candidates, err)
	}

	switch o := outcome.(type) {
	case domain.SyncInProgress:
		if o.TrackingNumber == "" {
			o.TrackingNumber = data.TrackingNumber
		}
		return s.inProgress(ctx, result, o), nil
	case domain.SyncFailed:
		kind := o.Kind
		if kind == "" {
			kind = domain.SyncErrorOther
		}
		return nil, s.pushFailed(ctx, data, candidates, &domain.SyncError{Kind: kind, Message: o.Reason})
	case domain.SyncSucceeded:
		s.pushSucceeded(ctx, data, candidates, o, result)
		return result, nil
	default:
		return nil, &domain.SyncError{Kind: domain.SyncErrorOther, Message: fmt.Sprintf("unexpected sync outcome %T", outcome)}
	}
}

func (s *InventorySyncService) pendingItems(ctx context.Context, data ports.SyncData, result *domain.SyncResult) ([]domain.SyncItem, error) {
	skus := make([]string, len(data.Items))
	for i, item := range data.Items {
		skus[i] = item.SKUVariant
	}

	statuses, err := s.CheckSkuSyncStatus(ctx, data.DeliveryID, skus)
	if err != nil {
		return nil, err
	}
	result.Statuses = statuses

	var pending []domain.SyncItem
	for i, item := range data.Items {
		status := statuses[i]
		switch {
		case status.IsSynced:
			result.AlreadySynced = append(result.AlreadySynced, item.SKUVariant)
		case status.State == domain.SkuStateFailed && item.AttemptCount >= s.cfg.MaxAutoSyncAttempts:
			result.FailedBefore = append(result.FailedBefore, item.SKUVariant)
		default:
			pending = append(pending, item)
		}
	}
	return pending, nil
}

func (s *InventorySyncService) inProgress(ctx context.Context, result *domain.SyncResult, o domain.SyncInProgress) *domain.SyncResult {
	result.Outcome = o
	result.CompletedAt = s.now()
	holder := "another session"
	if o.Lock.AcquiredBy != nil {
		holder = *o.Lock.AcquiredBy
	}
	if o.Lock.AcquiredAt != nil {
		result.Message = fmt.Sprintf("a sync for this delivery is already running (held by %s since %s)",
			holder, o.Lock.AcquiredAt.Format(time.RFC3339))
	} else {
		result.Message = fmt.Sprintf("a sync for this delivery is already running (held by %s)", holder)
	}

	s.logger.InfoContext(ctx, "sync already in progress",
		slog.String("delivery_id", result.DeliveryID.String()),
		slog.String("holder", holder))
	return result
}

func (s *InventorySyncService) pushFailed(ctx context.Context, data ports.SyncData, items []domain.SyncItem, cause error) error {
	kind := domain.ClassifySyncError(cause)
	syncErr := &domain.SyncError{Kind: kind, Message: "push to external platform failed", Err: cause}
	var typed *domain.SyncError
	if errors.As(cause, &typed) {
		syncErr = typed
	}

	logger := s.logger.With(slog.String("delivery_id", data.DeliveryID.String()), slog.String("kind", string(kind)))

	// a rate-limited call never reached the platform, so there is nothing to journal
	if kind == domain.SyncErrorRateLimited {
		logger.WarnContext(ctx, "sync rate limited", slog.String("error", cause.Error()))
		return syncErr
	}

	logger.ErrorContext(ctx, "sync failed", slog.String("error", cause.Error()))

	now := s.now()
	message := cause.Error()
	results := make([]domain.SyncItemResult, len(items))
	for i, item := range items {
		results[i] = domain.SyncItemResult{
			SKUVariant:       item.SKUVariant,
			VariantID:        item.VariantID.String(),
			QuantityApproved: item.QuantityApproved,
			Error:            message,
		}
	}
	s.journal(ctx, data.DeliveryID, items, results, nil, now)
	s.recordDeliverySync(ctx, data.DeliveryID, false, now)

	return syncErr
}

func (s *InventorySyncService) pushSucceeded(ctx context.Context, data ports.SyncData, items []domain.SyncItem,
	o domain.SyncSucceeded, result *domain.SyncResult) {

	now := s.now()
	results, resolved := batchResults(items, o)
	var unresolved *domain.SyncSummary
	if !resolved {
		unresolved = &o.Summary
	}
	s.journal(ctx, data.DeliveryID, items, results, unresolved, now)

	synced, failed := 0, 0
	for _, r := range results {
		if r.Success {
			synced++
		} else if r.Error != "" {
			failed++
		}
	}
	// without per-item results the function's own counters are the only truth
	if len(o.Results) == 0 && o.Summary.Successful+o.Summary.Failed > 0 {
		synced, failed = o.Summary.Successful, o.Summary.Failed
	}

	result.Outcome = o
	result.Pushed = items
	result.CompletedAt = now
	result.Message = fmt.Sprintf("%d item(s) synced, %d already synced", synced, len(result.AlreadySynced)+o.Summary.AlreadySynced)
	if failed > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d item(s) failed to sync and can be retried", failed))
	}
	if !resolved {
		result.Warnings = append(result.Warnings,
			"the sync function did not say which items failed, so every pushed SKU stays pending until the next sync")
	}
	if len(result.FailedBefore) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d SKU(s) failed previously and need a forced sync: %s",
			len(result.FailedBefore), strings.Join(result.FailedBefore, ", ")))
	}

	s.recordDeliverySync(ctx, data.DeliveryID, resolved && failed == 0 && len(result.FailedBefore) == 0, now)

	s.logger.InfoContext(ctx, "inventory synced",
		slog.String("delivery_id", data.DeliveryID.String()),
		slog.Int("pushed", len(items)),
		slog.Int("synced", synced),
		slog.Int("failed", failed),
		slog.Bool("resolved", resolved),
		slog.Int("already_synced", len(result.AlreadySynced)),
		slog.Int("failed_before", len(result.FailedBefore)))
}

// batchResults matches per-item results to the pushed items. An item the
// function did not report on takes the batch outcome when the summary is
// unanimous. A partial summary leaves such items unresolved: they carry
// neither success nor an error, and resolved is false.
func batchResults(items []domain.SyncItem, o domain.SyncSucceeded) ([]domain.SyncItemResult, bool) {
	bySKU := make(map[string]domain.SyncItemResult, len(o.Results))
	for _, r := range o.Results {
		bySKU[r.Key()] = r
	}

	allOK := o.Summary.Failed == 0
	allFailed := !allOK && o.Summary.Successful == 0 && o.Summary.AlreadySynced == 0

	resolved := true
	results := make([]domain.SyncItemResult, len(items))
	for i, item := range items {
		r, ok := bySKU[item.SKUVariant]
		if !ok {
			switch {
			case allOK:
				r = domain.SyncItemResult{Success: true}
			case allFailed:
				r = domain.SyncItemResult{Error: "reported as failed in batch summary"}
			default:
				resolved = false
			}
		}
		r.SKUVariant = item.SKUVariant
		r.VariantID = item.VariantID.String()
		r.QuantityApproved = item.QuantityApproved
		results[i] = r
	}
	return results, resolved
}

// journal appends the sync log and item bookkeeping. Journal failures are
// logged; the push already happened and cannot be undone.
func (s *InventorySyncService) journal(ctx context.Context, deliveryID uuid.UUID, items []domain.SyncItem,
	results []domain.SyncItemResult, unresolved *domain.SyncSummary, at time.Time) {

	entry := domain.NewSyncLog(deliveryID, results, at)
	if unresolved != nil {
		// the fold skips pending batches, so no SKU is marked failed on a guess
		entry.VerificationStatus = domain.VerificationPending
		entry.SuccessCount = unresolved.Successful
		entry.ErrorCount = unresolved.Failed
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to journal sync attempt",
			slog.String("delivery_id", deliveryID.String()),
			slog.String("error", err.Error()))
	}

	attempts := make([]domain.ItemSyncAttempt, len(items))
	for i, item := range items {
		attempt := domain.ItemSyncAttempt{ItemID: item.DeliveryItemID, Synced: results[i].Success, At: at}
		if !results[i].Success && results[i].Error != "" {
			msg := results[i].Error
			attempt.Error = &msg
		}
		attempts[i] = attempt
	}
	if err := s.deliveries.RecordItemSyncAttempts(ctx, deliveryID, attempts); err != nil {
		s.logger.WarnContext(ctx, "failed to record item sync attempts",
			slog.String("delivery_id", deliveryID.String()),
			slog.String("error", err.Error()))
	}
}

// recordDeliverySync bumps the delivery attempt counter; synced also marks
// the delivery as fully synced.
func (s *InventorySyncService) recordDeliverySync(ctx context.Context, deliveryID uuid.UUID, synced bool, at time.Time) {
	if err := s.deliveries.RecordDeliverySync(ctx, deliveryID, synced, at); err != nil {
		s.logger.WarnContext(ctx, "failed to record delivery sync attempt",
			slog.String("delivery_id", deliveryID.String()),
			slog.Bool("synced", synced),
			slog.String("error", err.Error()))
	}
}

func (s *InventorySyncService) releaseLock(ctx context.Context, token *domain.LockToken) {
	if err := s.lock.Release(context.WithoutCancel(ctx), token); err != nil {
		s.logger.WarnContext(ctx, "failed to release sync lock",
			slog.String("delivery_id", token.DeliveryID.String()),
			slog.String("error", err.Error()))
	}
}

// CheckSyncLockStatus reports who holds the sync lock of a delivery.
func (s *InventorySyncService) CheckSyncLockStatus(ctx context.Context, deliveryID uuid.UUID) (*domain.LockInfo, error) {
	info, err := s.lock.Status(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check sync lock: %w", err)
	}
	return info, nil
}

// ClearSyncLock force-releases the sync lock, then clears the lock columns
// of the delivery. Failing to clear the columns is only a warning.
func (s *InventorySyncService) ClearSyncLock(ctx context.Context, deliveryID uuid.UUID) error {
	if err := s.lock.ForceRelease(ctx, deliveryID); err != nil {
		return fmt.Errorf("failed to release sync lock: %w", err)
	}

	if err := s.deliveries.ClearLockColumns(ctx, deliveryID); err != nil {
		s.logger.WarnContext(ctx, "sync lock released but lock columns were not cleared",
			slog.String("delivery_id", deliveryID.String()),
			slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "sync lock cleared",
		slog.String("delivery_id", deliveryID.String()),
		slog.String("actor", domain.ActorFromContext(ctx)))
	return nil
}

// ClearAllStaleLocks releases every lock older than the stale age. A failure
// on one delivery does not stop the sweep.
func (s *InventorySyncService) ClearAllStaleLocks(ctx context.Context) (*ports.StaleLockReport, error) {
	cutoff := s.now().Add(-s.cfg.StaleLockAge)
	stale, err := s.deliveries.ListStaleLocked(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale locks: %w", err)
	}

	report := &ports.StaleLockReport{Found: len(stale), Released: []uuid.UUID{}}
	for _, d := range stale {
		if err := s.ClearSyncLock(ctx, d.ID); err != nil {
			s.logger.WarnContext(ctx, "failed to clear stale lock",
				slog.String("delivery_id", d.ID.String()),
				slog.String("error", err.Error()))
			report.Failed = append(report.Failed, d.ID)
			continue
		}
		report.Released = append(report.Released, d.ID)
	}

	s.logger.InfoContext(ctx, "stale lock sweep finished",
		slog.Int("found", report.Found),
		slog.Int("released", len(report.Released)),
		slog.Int("failed", len(report.Failed)))

	return report, nil
}
