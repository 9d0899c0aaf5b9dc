// internal/handlers/sync.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// SyncHandler exposes the inventory sync coordinator and its lock administration
type SyncHandler struct {
	sync   ports.InventorySyncService
	logger *slog.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(sync ports.InventorySyncService, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{
		sync:   sync,
		logger: logger.With(slog.String("handler", "sync")),
	}
}

// SkuStatusRequest is the body of POST /deliveries/{id}/sync-status
type SkuStatusRequest struct {
	SKUs []string `json:"skus" validate:"required,min=1,dive,required"`
}

// SyncResponse wraps a sync result with its outcome label
type SyncResponse struct {
	*domain.SyncResult
	Outcome string `json:"outcome"`
}

// SyncDelivery handles POST /api/v1/deliveries/{id}/sync.
// force=true pushes every approved item; a recent successful sync blocks a
// forced push unless override=true.
func (h *SyncHandler) SyncDelivery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	force := queryBool(r, "force")
	override := queryBool(r, "override")

	if force && !override {
		recent, err := h.sync.CheckRecentSuccessfulSync(ctx, id)
		if err != nil {
			respondDomainError(ctx, h.logger, w, err, "check recent sync")
			return
		}
		if recent {
			respondDomainError(ctx, h.logger, w, domain.ErrRecentlySynced, "sync delivery")
			return
		}
	}

	result, err := h.sync.SyncDelivery(ctx, id, !force)
	if err != nil {
		respondDomainError(ctx, h.logger, w, err, "sync delivery")
		return
	}

	status := http.StatusOK
	if result.InProgress() {
		status = http.StatusConflict
	}

	h.logger.InfoContext(ctx, "manual sync finished",
		slog.String("delivery_id", id.String()),
		slog.Bool("force", force),
		slog.String("outcome", result.OutcomeName()))

	respondJSON(ctx, h.logger, w, status, SyncResponse{SyncResult: result, Outcome: result.OutcomeName()})
}

// RecentSync handles GET /api/v1/deliveries/{id}/sync/recent
func (h *SyncHandler) RecentSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	recent, err := h.sync.CheckRecentSuccessfulSync(ctx, id)
	if err != nil {
		respondDomainError(ctx, h.logger, w, err, "check recent sync")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, map[string]any{
		"delivery_id":     id,
		"recently_synced": recent,
	})
}

// SkuStatus handles POST /api/v1/deliveries/{id}/sync-status
func (h *SyncHandler) SkuStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := readBody(r, 1<<20)
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	var req SkuStatusRequest
	if err := decodeJSON(body, &req); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	statuses, err := h.sync.CheckSkuSyncStatus(ctx, id, req.SKUs)
	if err != nil {
		respondDomainError(ctx, h.logger, w, err, "check sku sync status")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, map[string]any{"statuses": statuses})
}

// LockStatus handles GET /api/v1/deliveries/{id}/sync-lock
func (h *SyncHandler) LockStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := h.sync.CheckSyncLockStatus(ctx, id)
	if err != nil {
		respondDomainError(ctx, h.logger, w, err, "check sync lock")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, info)
}

// ClearLock handles DELETE /api/v1/deliveries/{id}/sync-lock
func (h *SyncHandler) ClearLock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sync.ClearSyncLock(ctx, id); err != nil {
		respondDomainError(ctx, h.logger, w, err, "clear sync lock")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, map[string]any{"delivery_id": id, "cleared": true})
}

// ClearStaleLocks handles POST /api/v1/sync-locks/clear-stale
func (h *SyncHandler) ClearStaleLocks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.sync.ClearAllStaleLocks(ctx)
	if err != nil {
		respondDomainError(ctx, h.logger, w, err, "clear stale locks")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, report)
}

func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}
