package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Domain errors
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrDeliveryNotFound      = errors.New("delivery not found")
	ErrDeliveryItemNotFound  = errors.New("delivery item not found")
	ErrEmptyReview           = errors.New("quality review has no variants")
	ErrInvalidItemKey        = errors.New("invalid delivery item id")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrQuantityEditForbidden = errors.New("delivery quantities can no longer be edited")
	ErrNoFilesUploaded       = errors.New("no files were uploaded")
	ErrLockHeld              = errors.New("sync lock already held")
	ErrLockNotHeld           = errors.New("sync lock not held by token")
	ErrNoDeliveryCode        = errors.New("no delivery code found in message")
	ErrInvalidPhone          = errors.New("invalid phone number")
	ErrRecentlySynced        = errors.New("delivery was synced successfully in the last 30 minutes")
)

// MissingOrderItemsError lists order item ids that did not resolve.
type MissingOrderItemsError struct {
	IDs []uuid.UUID
}

func (e *MissingOrderItemsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("order items not found: %s", strings.Join(ids, ", "))
}

// IsValidation reports whether err should be surfaced to the caller as a bad request.
func IsValidation(err error) bool {
	var missing *MissingOrderItemsError
	return errors.As(err, &missing) ||
		errors.Is(err, ErrEmptyReview) ||
		errors.Is(err, ErrInvalidItemKey) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrUnsupportedFileType) ||
		errors.Is(err, ErrNoDeliveryCode) ||
		errors.Is(err, ErrInvalidPhone)
}

// IsNotFound reports whether err refers to a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrDeliveryNotFound) ||
		errors.Is(err, ErrDeliveryItemNotFound)
}
