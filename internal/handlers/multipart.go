// internal/handlers/multipart.go
package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/ammerola/atelier-ops/internal/core/domain"
)

const (
	payloadField = "payload"
	defaultMaxMB = 25
)

// parseMultipart reads the JSON payload field and the files of fileField.
// Files are buffered so they can be inspected and re-read.
func parseMultipart(r *http.Request, maxBytes int64, fileField string) ([]byte, []domain.FileUpload, error) {
	if maxBytes <= 0 {
		maxBytes = defaultMaxMB << 20
	}
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	payload := []byte(r.FormValue(payloadField))
	if len(payload) == 0 {
		return nil, nil, fmt.Errorf("missing %s field", payloadField)
	}

	var uploads []domain.FileUpload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File[fileField] {
			upload, err := readUpload(header)
			if err != nil {
				return nil, nil, err
			}
			uploads = append(uploads, upload)
		}
	}
	return payload, uploads, nil
}

func readUpload(header *multipart.FileHeader) (domain.FileUpload, error) {
	f, err := header.Open()
	if err != nil {
		return domain.FileUpload{}, fmt.Errorf("failed to open %s: %w", header.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.FileUpload{}, fmt.Errorf("failed to read %s: %w", header.Filename, err)
	}

	return domain.FileUpload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Content:     bytes.NewReader(data),
	}, nil
}
