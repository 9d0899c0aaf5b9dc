// internal/adapters/shopify/client.go
package shopify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// Config holds the remote inventory-sync function settings
type Config struct {
	FunctionURL   string
	Token         string
	Timeout       time.Duration
	RatePerSecond float64
}

// InventorySyncClient calls the remote function that writes approved
// quantities to the e-commerce platform.
type InventorySyncClient struct {
	http    *resty.Client
	url     string
	limiter *rate.Limiter
	logger  *slog.Logger
}

var _ ports.InventoryPusher = (*InventorySyncClient)(nil)

type approvedItem struct {
	VariantID        string `json:"variantId"`
	SKUVariant       string `json:"skuVariant"`
	QuantityApproved int    `json:"quantityApproved"`
}

type syncRequest struct {
	DeliveryID      string         `json:"deliveryId"`
	ApprovedItems   []approvedItem `json:"approvedItems"`
	IntelligentSync bool           `json:"intelligentSync"`
}

type syncResponse struct {
	Success     bool                    `json:"success"`
	Summary     *domain.SyncSummary     `json:"summary,omitempty"`
	Results     []domain.SyncItemResult `json:"results,omitempty"`
	Diagnostics map[string]any          `json:"diagnostics,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Message     string                  `json:"message,omitempty"`
	Details     *lockDetails            `json:"details,omitempty"`
}

type lockDetails struct {
	LockAcquiredAt *time.Time `json:"lock_acquired_at,omitempty"`
	LockAcquiredBy *string    `json:"lock_acquired_by,omitempty"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
}

const errSyncInProgress = "sync_in_progress"

// NewInventorySyncClient creates a client for the sync function
func NewInventorySyncClient(cfg Config, logger *slog.Logger) *InventorySyncClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "atelier-ops/1.0")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &InventorySyncClient{
		http:    client,
		url:     cfg.FunctionURL,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With(slog.String("component", "inventory_sync_client")),
	}
}

// PushInventory sends the approved items of one delivery. A held lock on
// the remote side comes back as domain.SyncInProgress, a 429 as a
// rate_limited *domain.SyncError.
func (c *InventorySyncClient) PushInventory(ctx context.Context, req domain.SyncRequest) (domain.SyncOutcome, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for sync rate limiter: %w", err)
	}

	body := syncRequest{
		DeliveryID:      req.DeliveryID.String(),
		ApprovedItems:   make([]approvedItem, 0, len(req.Items)),
		IntelligentSync: req.IntelligentSync,
	}
	for _, item := range req.Items {
		body.ApprovedItems = append(body.ApprovedItems, approvedItem{
			VariantID:        item.VariantID.String(),
			SKUVariant:       item.SKUVariant,
			QuantityApproved: item.QuantityApproved,
		})
	}

	var result syncResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&result).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("failed to call sync function: %w", err)
	}

	c.logger.DebugContext(ctx, "sync function responded",
		slog.String("delivery_id", req.DeliveryID.String()),
		slog.Int("status", resp.StatusCode()),
		slog.Int("items", len(body.ApprovedItems)),
		slog.Duration("elapsed", resp.Time()))

	switch {
	case resp.StatusCode() == http.StatusConflict || result.Error == errSyncInProgress:
		return inProgress(req, result), nil
	case resp.StatusCode() == http.StatusTooManyRequests:
		return nil, &domain.SyncError{
			Kind:    domain.SyncErrorRateLimited,
			Message: reason(resp, result),
		}
	case resp.IsError():
		return domain.SyncFailed{Kind: domain.SyncErrorOther, Reason: reason(resp, result)}, nil
	case !result.Success:
		msg := reason(resp, result)
		return domain.SyncFailed{Kind: domain.ClassifySyncError(fmt.Errorf("%s", msg)), Reason: msg}, nil
	}

	succeeded := domain.SyncSucceeded{
		Results:     result.Results,
		Diagnostics: result.Diagnostics,
	}
	if result.Summary != nil {
		succeeded.Summary = *result.Summary
	}
	return succeeded, nil
}

func inProgress(req domain.SyncRequest, result syncResponse) domain.SyncInProgress {
	out := domain.SyncInProgress{
		Lock: domain.LockInfo{DeliveryID: req.DeliveryID, IsHeld: true},
	}
	if d := result.Details; d != nil {
		out.Lock.AcquiredAt = d.LockAcquiredAt
		out.Lock.AcquiredBy = d.LockAcquiredBy
		out.Lock.TrackingNumber = d.TrackingNumber
		out.TrackingNumber = d.TrackingNumber
	}
	return out
}

func reason(resp *resty.Response, result syncResponse) string {
	switch {
	case result.Error != "" && result.Message != "":
		return result.Error + ": " + result.Message
	case result.Error != "":
		return result.Error
	case result.Message != "":
		return result.Message
	default:
		return fmt.Sprintf("sync function returned status %d", resp.StatusCode())
	}
}
