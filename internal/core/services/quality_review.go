// internal/core/services/quality_review.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/internal/pkg/saga"
)

// ProcessQualityReview records the per-item verdicts of a review, recomputes
// the delivery status and pushes newly approved units to the external platform.
//
// Item updates run in order and are not rolled back: when one fails, the
// items written before it keep their review data.
func (s *DeliveryService) ProcessQualityReview(ctx context.Context, deliveryID uuid.UUID, input ports.QualityReviewInput) (*ports.QualityReviewResult, error) {
	reviews, err := buildItemReviews(input)
	if err != nil {
		return nil, err
	}

	delivery, err := s.deliveries.FindWithItems(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}
	if delivery == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeliveryNotFound, deliveryID)
	}
	if err := checkReviewedItems(delivery, reviews); err != nil {
		return nil, err
	}

	logger := s.logger.With(slog.String("delivery_id", deliveryID.String()))

	updates := saga.New("quality_review", logger)
	for _, review := range reviews {
		review := review
		updates.Add(saga.Step{
			Name: "update_item_" + review.ItemID.String(),
			Action: func(ctx context.Context) error {
				return s.deliveries.UpdateItemReview(ctx, deliveryID, review)
			},
		})
	}
	applied, err := updates.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "quality review aborted",
			slog.Int("items_written", len(applied.Completed)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update delivery item: %w", err)
	}

	result := &ports.QualityReviewResult{
		DeliveryID:    deliveryID,
		ItemsReviewed: len(reviews),
	}

	if len(input.EvidenceFiles) > 0 {
		summary, err := s.evidence.UploadEvidenceFiles(ctx, deliveryID, input.EvidenceFiles, input.GeneralNotes)
		result.Evidence = summary
		switch {
		case err != nil:
			logger.WarnContext(ctx, "evidence upload failed", slog.String("error", err.Error()))
			result.Warnings = append(result.Warnings, "evidence files could not be uploaded: "+err.Error())
		case summary.Failed > 0:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%d of %d evidence file(s) failed to upload", summary.Failed, summary.Total()))
		}
	}

	if input.GeneralNotes != "" {
		if err := s.deliveries.UpdateNotes(ctx, deliveryID, domain.QualityNotesPrefix+input.GeneralNotes); err != nil {
			logger.WarnContext(ctx, "failed to store review notes", slog.String("error", err.Error()))
			result.Warnings = append(result.Warnings, "review notes could not be saved")
		}
	}

	reviewed, err := s.deliveries.FindWithItems(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload delivery: %w", err)
	}
	if reviewed == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeliveryNotFound, deliveryID)
	}

	status := domain.DeriveDeliveryStatus(reviewed.Items)
	if err := s.deliveries.UpdateStatus(ctx, deliveryID, status); err != nil {
		return nil, fmt.Errorf("failed to update delivery status: %w", err)
	}
	reviewed.Status = status
	result.Status = status
	result.Success = true

	s.syncReviewedItems(ctx, reviewed, result)

	if s.tasks != nil && s.cfg.NotifyWorkshops && reviewed.WorkshopID != nil {
		if err := s.tasks.EnqueueWorkshopNotification(ctx, deliveryID); err != nil {
			logger.WarnContext(ctx, "failed to enqueue workshop notification", slog.String("error", err.Error()))
		}
	}

	logger.InfoContext(ctx, "quality review completed",
		slog.String("status", string(status)),
		slog.Int("items", len(reviews)),
		slog.String("outcome", string(result.Outcome)))

	return result, nil
}

func (s *DeliveryService) syncReviewedItems(ctx context.Context, delivery *domain.Delivery, result *ports.QualityReviewResult) {
	approved := delivery.ApprovedSyncItems()
	if len(approved) == 0 {
		result.Outcome = ports.ReviewOutcomeNothingToSync
		result.Message = fmt.Sprintf("Quality review completed: delivery %s is %s, no approved units to sync",
			delivery.TrackingNumber, delivery.Status)
		return
	}

	syncResult, err := s.sync.SyncApprovedItems(ctx, ports.SyncData{
		DeliveryID:     delivery.ID,
		TrackingNumber: delivery.TrackingNumber,
		Items:          approved,
	}, true)
	if err != nil {
		kind := domain.ClassifySyncError(err)
		result.SyncErrorKind = kind
		result.Outcome = ports.ReviewOutcomeSyncError
		result.Message = "Quality review completed with sync error, retry the sync manually"
		result.Warnings = append(result.Warnings, err.Error())
		s.scheduleSyncRetry(ctx, delivery.ID, kind)
		return
	}

	result.Sync = syncResult
	switch {
	case syncResult.InProgress():
		result.Outcome = ports.ReviewOutcomeSyncInProgress
		result.Message = "Quality review completed; " + syncResult.Message
	case syncResult.Skipped == domain.SyncSkipNeedsForce:
		result.Outcome = ports.ReviewOutcomeSyncNeedsForcePush
		result.Message = "Quality review completed; " + syncResult.Message
	default:
		result.Outcome = ports.ReviewOutcomeCompleted
		result.Message = fmt.Sprintf("Quality review completed: %d item(s) synced, %d already synced",
			len(syncResult.Pushed), len(syncResult.AlreadySynced))
		result.Warnings = append(result.Warnings, syncResult.Warnings...)
	}
}

func (s *DeliveryService) scheduleSyncRetry(ctx context.Context, deliveryID uuid.UUID, kind domain.SyncErrorKind) {
	if s.tasks == nil || kind == domain.SyncErrorSyncInProgress {
		return
	}
	if err := s.tasks.EnqueueDeliverySync(ctx, deliveryID, s.cfg.SyncRetryDelay); err != nil {
		s.logger.WarnContext(ctx, "failed to schedule sync retry",
			slog.String("delivery_id", deliveryID.String()),
			slog.String("error", err.Error()))
	}
}

// buildItemReviews validates every review entry before anything is written.
func buildItemReviews(input ports.QualityReviewInput) ([]domain.ItemReview, error) {
	if len(input.Variants) == 0 {
		return nil, domain.ErrEmptyReview
	}

	keys := make([]string, 0, len(input.Variants))
	for key := range input.Variants {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	reviews := make([]domain.ItemReview, 0, len(keys))
	var invalid []string
	for _, key := range keys {
		id, err := parseItemKey(key)
		if err != nil {
			invalid = append(invalid, key)
			continue
		}
		v := input.Variants[key]
		if v.Approved < 0 || v.Defective < 0 {
			return nil, fmt.Errorf("%w: item %s has negative counts", domain.ErrInvalidQuantity, key)
		}
		reviews = append(reviews, domain.NewItemReview(id, v, input.GeneralNotes))
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidItemKey, invalid)
	}

	return reviews, nil
}

// parseItemKey accepts only the canonical 8-4-4-4-12 form. uuid.Parse alone
// would also take braces, urn:uuid: prefixes and undashed hex.
func parseItemKey(key string) (uuid.UUID, error) {
	if len(key) != 36 {
		return uuid.Nil, fmt.Errorf("item key %q is not a canonical uuid", key)
	}
	return uuid.Parse(key)
}

// checkReviewedItems rejects review keys that are not items of delivery, so
// a stray key fails the review before any item is written.
func checkReviewedItems(delivery *domain.Delivery, reviews []domain.ItemReview) error {
	known := make(map[uuid.UUID]struct{}, len(delivery.Items))
	for _, item := range delivery.Items {
		known[item.ID] = struct{}{}
	}

	var unknown []string
	for _, r := range reviews {
		if _, ok := known[r.ItemID]; !ok {
			unknown = append(unknown, r.ItemID.String())
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: not items of delivery %s: %q", domain.ErrInvalidItemKey, delivery.ID, unknown)
	}
	return nil
}
