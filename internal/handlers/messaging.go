// internal/handlers/messaging.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// MessagingHandler answers delivery questions relayed from chat channels
type MessagingHandler struct {
	service ports.MessagingService
	logger  *slog.Logger
}

// NewMessagingHandler creates a new messaging handler
func NewMessagingHandler(service ports.MessagingService, logger *slog.Logger) *MessagingHandler {
	return &MessagingHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "messaging")),
	}
}

// LookupRequest is an incoming chat message
type LookupRequest struct {
	From string `json:"from"`
	Text string `json:"text" validate:"required"`
}

// DeliveryLookup handles POST /api/v1/messaging/delivery-lookup
func (h *MessagingHandler) DeliveryLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readBody(r, 64<<10)
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	var req LookupRequest
	if err := decodeJSON(body, &req); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	lookup, err := h.service.LookupDelivery(ctx, req.From, req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrNoDeliveryCode) {
			respondError(ctx, h.logger, w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respondDomainError(ctx, h.logger, w, err, "look up delivery")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, lookup)
}
