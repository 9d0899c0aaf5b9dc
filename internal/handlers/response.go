// internal/handlers/response.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/pkg/logger"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func respondJSON(ctx context.Context, log *slog.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.ErrorContext(ctx, "failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(ctx context.Context, log *slog.Logger, w http.ResponseWriter, status int, message string) {
	requestID, _ := ctx.Value(logger.ContextKeyRequestID).(string)
	respondJSON(ctx, log, w, status, ErrorResponse{Error: message, RequestID: requestID})
}

// respondDomainError maps err onto an HTTP status. Server errors hide their cause.
func respondDomainError(ctx context.Context, log *slog.Logger, w http.ResponseWriter, err error, action string) {
	status := errorStatus(err)
	requestID, _ := ctx.Value(logger.ContextKeyRequestID).(string)
	body := ErrorResponse{Error: err.Error(), RequestID: requestID}

	var syncErr *domain.SyncError
	if errors.As(err, &syncErr) {
		body.Kind = string(syncErr.Kind)
	}

	if status >= http.StatusInternalServerError {
		log.ErrorContext(ctx, "request failed",
			slog.String("action", action),
			slog.String("error", err.Error()))
		body.Error = fmt.Sprintf("Failed to %s", action)
	}

	respondJSON(ctx, log, w, status, body)
}

func errorStatus(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrQuantityEditForbidden),
		errors.Is(err, domain.ErrLockHeld),
		errors.Is(err, domain.ErrRecentlySynced):
		return http.StatusConflict
	case domain.ClassifySyncError(err) == domain.SyncErrorRateLimited:
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrNoFilesUploaded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s format", name)
	}
	return id, nil
}

// decodeJSON decodes body into dst and validates it
func decodeJSON(data []byte, dst interface{}) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return validateStruct(dst)
}

func validateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func errInvalidParam(name string) error {
	return fmt.Errorf("invalid %s parameter", name)
}

func readBody(r *http.Request, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("request body too large")
	}
	return data, nil
}
