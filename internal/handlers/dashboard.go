// internal/handlers/dashboard.go
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	redis_a "github.com/ammerola/atelier-ops/internal/adapters/redis_adapter"
	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// DashboardTTL is how long the dashboard summary is served from cache
const DashboardTTL = time.Minute

// DashboardHandler serves the operations dashboard summary
type DashboardHandler struct {
	db         ports.Database
	deliveries ports.DeliveryRepository
	cache      ports.CacheRepository
	logger     *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(db ports.Database, deliveries ports.DeliveryRepository, cache ports.CacheRepository, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		db:         db,
		deliveries: deliveries,
		cache:      cache,
		logger:     logger.With(slog.String("handler", "dashboard")),
	}
}

// DashboardData is the cached dashboard summary
type DashboardData struct {
	ByStatus        map[domain.DeliveryStatus]int64 `json:"by_status"`
	Total           int64                           `json:"total"`
	PendingSync     int64                           `json:"pending_sync"`
	FailedSyncItems int64                           `json:"failed_sync_items"`
	Locked          int64                           `json:"locked"`
	Timestamp       time.Time                       `json:"timestamp"`
}

// GetDashboard handles GET /api/v1/dashboard. refresh=true drops the cached
// summary first.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "summary")
	if r.URL.Query().Get("refresh") == "true" {
		if err := h.cache.Invalidate(ctx, cacheKey); err != nil {
			h.logger.WarnContext(ctx, "failed to invalidate dashboard cache",
				slog.String("error", err.Error()))
		}
	}

	var dashboard DashboardData
	err := h.cache.GetOrSet(ctx, cacheKey, &dashboard, func() (any, error) {
		return h.loadDashboardData(ctx)
	}, DashboardTTL)
	if err != nil {
		respondDomainError(ctx, h.logger, w, err, "load dashboard")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, dashboard)
}

func (h *DashboardHandler) loadDashboardData(ctx context.Context) (*DashboardData, error) {
	counts, err := h.deliveries.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := &DashboardData{ByStatus: counts, Timestamp: time.Now().UTC()}
	for _, n := range counts {
		dashboard.Total += n
	}

	// approved units that never reached the store, and deliveries holding a sync lock
	summaryQuery := `
		SELECT
			COUNT(*) FILTER (WHERE d.status IN ('approved', 'partial_approved') AND NOT d.synced_to_shopify),
			COUNT(*) FILTER (WHERE d.sync_lock_acquired_at IS NOT NULL),
			(SELECT COUNT(*) FROM delivery_items di
			  WHERE di.quantity_approved > 0 AND NOT di.synced_to_shopify AND di.sync_error_message IS NOT NULL)
		FROM deliveries d`

	if err := h.db.QueryRow(ctx, summaryQuery).Scan(
		&dashboard.PendingSync,
		&dashboard.Locked,
		&dashboard.FailedSyncItems,
	); err != nil {
		return nil, fmt.Errorf("failed to load sync summary: %w", err)
	}

	return dashboard, nil
}
