package domain

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileCategory tags what a delivery attachment documents
type FileCategory string

// File category constants
const (
	FileCategoryInvoice  FileCategory = "invoice"
	FileCategoryEvidence FileCategory = "evidence"
)

var allowedInvoiceTypes = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"application/pdf": "pdf",
}

// IsAllowedInvoiceType reports whether contentType may be attached as an invoice or remission.
func IsAllowedInvoiceType(contentType string) bool {
	_, ok := allowedInvoiceTypes[normalizeContentType(contentType)]
	return ok
}

// DeliveryFile is the metadata row of an uploaded attachment.
type DeliveryFile struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	DeliveryID   uuid.UUID    `json:"delivery_id" db:"delivery_id"`
	FileName     string       `json:"file_name" db:"file_name"`
	FileURL      string       `json:"file_url" db:"file_url"`
	FileType     string       `json:"file_type" db:"file_type"`
	FileSize     int64        `json:"file_size" db:"file_size"`
	PageCount    *int         `json:"page_count,omitempty" db:"page_count"`
	FileCategory FileCategory `json:"file_category" db:"file_category"`
	UploadedBy   *string      `json:"uploaded_by,omitempty" db:"uploaded_by"`
	Notes        *string      `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// FileUpload is a binary attachment received from a client.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.ReadSeeker
}

// WellFormed reports whether the upload carries a name and content.
func (f *FileUpload) WellFormed() bool {
	return f != nil && f.Content != nil && f.Size > 0 && strings.TrimSpace(f.Name) != ""
}

// Extension returns the lower-case extension of the upload, falling back to the content type.
func (f *FileUpload) Extension() string {
	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(f.Name)), "."); ext != "" {
		return ext
	}
	if ext, ok := allowedInvoiceTypes[normalizeContentType(f.ContentType)]; ok {
		return ext
	}
	return "bin"
}

// FilterWellFormed drops uploads without a name or content.
func FilterWellFormed(files []FileUpload) []FileUpload {
	valid := make([]FileUpload, 0, len(files))
	for i := range files {
		if files[i].WellFormed() {
			valid = append(valid, files[i])
		}
	}
	return valid
}

// ValidateInvoiceTypes rejects the whole batch if any upload has an unsupported type.
func ValidateInvoiceTypes(files []FileUpload) error {
	var rejected []string
	for _, f := range files {
		if !IsAllowedInvoiceType(f.ContentType) {
			rejected = append(rejected, fmt.Sprintf("%s (%s)", f.Name, f.ContentType))
		}
	}
	if len(rejected) > 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, strings.Join(rejected, ", "))
	}
	return nil
}

// StorageKey builds the blob path for an attachment of a delivery.
func StorageKey(deliveryID uuid.UUID, kind string, ext string, at time.Time, random string) string {
	return fmt.Sprintf("%s/%s-%d-%s.%s", deliveryID, kind, at.UnixMilli(), random, ext)
}

// UploadSummary reports per-file outcomes of a batch upload
type UploadSummary struct {
	Uploaded int            `json:"uploaded"`
	Failed   int            `json:"failed"`
	Files    []DeliveryFile `json:"files,omitempty"`
	Errors   []string       `json:"errors,omitempty"`
}

// Total is the number of files attempted
func (s UploadSummary) Total() int {
	return s.Uploaded + s.Failed
}

func normalizeContentType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
