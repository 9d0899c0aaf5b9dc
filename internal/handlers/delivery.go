// internal/handlers/delivery.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// DeliveryHandler handles the delivery lifecycle endpoints
type DeliveryHandler struct {
	service        ports.DeliveryService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewDeliveryHandler creates a new delivery handler. maxUploadMB bounds multipart bodies.
func NewDeliveryHandler(service ports.DeliveryService, maxUploadMB int, logger *slog.Logger) *DeliveryHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = defaultMaxMB
	}
	return &DeliveryHandler{
		service:        service,
		maxUploadBytes: int64(maxUploadMB) << 20,
		logger:         logger.With(slog.String("handler", "delivery")),
	}
}

// QuantitiesRequest is the body of PATCH /deliveries/{id}/quantities
type QuantitiesRequest struct {
	Updates []ports.QuantityUpdate `json:"updates" validate:"required,min=1,dive"`
}

// CreateDelivery handles POST /api/v1/deliveries
func (h *DeliveryHandler) CreateDelivery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	payload, files, err := parseMultipart(r, h.maxUploadBytes, "files")
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	var input ports.CreateDeliveryInput
	if err := decodeJSON(payload, &input); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	input.Files = files

	result, err := h.service.CreateDelivery(ctx, input)
	if err != nil {
		respondDomainError(ctx, h.logger, w, err, "create delivery")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusCreated, result)
}

// GetDelivery handles GET /api/v1/deliveries/{id}
func (h *DeliveryHandler) GetDelivery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	delivery, err := h.service.GetDelivery(ctx, id)
	if err != nil {
		respondDomainError(ctx, h.logger, w, err, "get delivery")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, delivery)
}

// ListDeliveries handles GET /api/v1/deliveries
func (h *DeliveryHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseDeliveryFilter(r)
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.service.ListDeliveries(ctx, filter)
	if err != nil {
		respondDomainError(ctx, h.logger, w, err, "list deliveries")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, list)
}

// DeleteDelivery handles DELETE /api/v1/deliveries/{id}
func (h *DeliveryHandler) DeleteDelivery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.DeleteDelivery(ctx, id); err != nil {
		respondDomainError(ctx, h.logger, w, err, "delete delivery")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateQuantities handles PATCH /api/v1/deliveries/{id}/quantities
func (h *DeliveryHandler) UpdateQuantities(w http.ResponseWriter, r *http.Request) {
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
	var req QuantitiesRequest
	if err := decodeJSON(body, &req); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdateDeliveryQuantities(ctx, id, req.Updates); err != nil {
		respondDomainError(ctx, h.logger, w, err, "update quantities")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, map[string]bool{"updated": true})
}

// QualityReview handles POST /api/v1/deliveries/{id}/quality-review
func (h *DeliveryHandler) QualityReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	payload, evidence, err := parseMultipart(r, h.maxUploadBytes, "evidence")
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	var input ports.QualityReviewInput
	if err := decodeJSON(payload, &input); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	input.EvidenceFiles = evidence

	result, err := h.service.ProcessQualityReview(ctx, id, input)
	if err != nil {
		respondDomainError(ctx, h.logger, w, err, "process quality review")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, result)
}

func parseDeliveryFilter(r *http.Request) (domain.DeliveryFilter, error) {
	q := r.URL.Query()
	filter := domain.DeliveryFilter{Search: q.Get("search")}

	if status := q.Get("status"); status != "" {
		filter.Status = domain.DeliveryStatus(status)
		if !filter.Status.IsValid() {
			return filter, errInvalidParam("status")
		}
	}
	if orderID := q.Get("order_id"); orderID != "" {
		id, err := uuid.Parse(orderID)
		if err != nil {
			return filter, errInvalidParam("order_id")
		}
		filter.OrderID = &id
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return filter, errInvalidParam("limit")
		}
		filter.Limit = n
	}
	if offset := q.Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return filter, errInvalidParam("offset")
		}
		filter.Offset = n
	}

	filter.Normalize()
	return filter, nil
}
