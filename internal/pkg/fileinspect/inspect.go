// Package fileinspect sniffs content types and reads PDF metadata from uploads.
package fileinspect

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

const genericContentType = "application/octet-stream"

// Info is what could be learned about an upload.
type Info struct {
	ContentType string
	Sniffed     bool
	PageCount   *int
}

// Inspect resolves the content type of content and, for PDFs, its page count.
// The declared type wins unless it is empty or generic. content is rewound
// before returning.
func Inspect(content io.ReadSeeker, declared string) (Info, error) {
	info := Info{ContentType: strings.TrimSpace(declared)}

	if info.ContentType == "" || strings.HasPrefix(info.ContentType, genericContentType) {
		mt, err := mimetype.DetectReader(content)
		if err != nil {
			return info, fmt.Errorf("failed to detect content type: %w", err)
		}
		info.ContentType = baseType(mt.String())
		info.Sniffed = true
	}
	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return info, fmt.Errorf("failed to rewind upload: %w", err)
	}

	if baseType(info.ContentType) == "application/pdf" {
		if pages, err := PageCount(content); err == nil {
			info.PageCount = &pages
		}
		if _, err := content.Seek(0, io.SeekStart); err != nil {
			return info, fmt.Errorf("failed to rewind upload: %w", err)
		}
	}

	return info, nil
}

// PageCount returns the number of pages of a PDF document.
func PageCount(content io.ReadSeeker) (pages int, err error) {
	// the pdf reader panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	size, err := content.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	readerAt, ok := content.(io.ReaderAt)
	if !ok {
		data, err := io.ReadAll(content)
		if err != nil {
			return 0, err
		}
		readerAt = bytes.NewReader(data)
	}

	r, err := pdf.NewReader(readerAt, size)
	if err != nil {
		return 0, fmt.Errorf("failed to open pdf: %w", err)
	}
	return r.NumPage(), nil
}

func baseType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
