// internal/core/services/evidence.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/internal/pkg/fileinspect"
)

// Storage key prefixes
const (
	invoiceKeyKind  = "invoice-remission"
	evidenceKeyKind = "evidence"
)

// EvidenceService uploads delivery attachments and records their metadata.
type EvidenceService struct {
	storage ports.BlobStorage
	files   ports.DeliveryFileRepository
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.EvidenceService = (*EvidenceService)(nil)

// NewEvidenceService creates a new evidence upload service
func NewEvidenceService(storage ports.BlobStorage, files ports.DeliveryFileRepository, logger *slog.Logger) *EvidenceService {
	return &EvidenceService{
		storage: storage,
		files:   files,
		logger:  logger.With(slog.String("service", "evidence")),
		now:     time.Now,
	}
}

// UploadInvoiceFiles uploads invoice and remission documents of a new delivery.
// Failures are collected per file and never abort the batch.
func (s *EvidenceService) UploadInvoiceFiles(ctx context.Context, deliveryID uuid.UUID, files []domain.FileUpload) *domain.UploadSummary {
	summary := s.uploadAll(ctx, deliveryID, files, domain.FileCategoryInvoice, invoiceKeyKind, "")

	s.logger.InfoContext(ctx, "invoice files processed",
		slog.String("delivery_id", deliveryID.String()),
		slog.Int("uploaded", summary.Uploaded),
		slog.Int("failed", summary.Failed))

	return summary
}

// UploadEvidenceFiles uploads quality review evidence. It fails only when no
// file could be stored; partial failures are reported in the summary.
func (s *EvidenceService) UploadEvidenceFiles(ctx context.Context, deliveryID uuid.UUID, files []domain.FileUpload, description string) (*domain.UploadSummary, error) {
	valid := domain.FilterWellFormed(files)
	if len(valid) == 0 {
		return &domain.UploadSummary{Failed: len(files)}, fmt.Errorf("%w: no valid evidence files", domain.ErrNoFilesUploaded)
	}

	summary := s.uploadAll(ctx, deliveryID, valid, domain.FileCategoryEvidence, evidenceKeyKind, description)
	summary.Failed += len(files) - len(valid)

	if summary.Uploaded == 0 {
		return summary, fmt.Errorf("%w: %s", domain.ErrNoFilesUploaded, strings.Join(summary.Errors, "; "))
	}
	if summary.Failed > 0 {
		s.logger.WarnContext(ctx, "some evidence files failed to upload",
			slog.String("delivery_id", deliveryID.String()),
			slog.Int("uploaded", summary.Uploaded),
			slog.Int("failed", summary.Failed))
	}

	return summary, nil
}

func (s *EvidenceService) uploadAll(ctx context.Context, deliveryID uuid.UUID, files []domain.FileUpload,
	category domain.FileCategory, kind string, notes string) *domain.UploadSummary {

	summary := &domain.UploadSummary{}
	for i := range files {
		file, err := s.uploadOne(ctx, deliveryID, &files[i], category, kind, notes)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", files[i].Name, err))
			s.logger.WarnContext(ctx, "file upload failed",
				slog.String("delivery_id", deliveryID.String()),
				slog.String("file_name", files[i].Name),
				slog.String("error", err.Error()))
			continue
		}
		summary.Uploaded++
		summary.Files = append(summary.Files, *file)
	}
	return summary
}

func (s *EvidenceService) uploadOne(ctx context.Context, deliveryID uuid.UUID, upload *domain.FileUpload,
	category domain.FileCategory, kind string, notes string) (*domain.DeliveryFile, error) {

	info, err := fileinspect.Inspect(upload.Content, upload.ContentType)
	if err != nil {
		return nil, err
	}
	if !domain.IsAllowedInvoiceType(info.ContentType) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, info.ContentType)
	}

	key := domain.StorageKey(deliveryID, kind, upload.Extension(), s.now(), randomSuffix())
	url, err := s.storage.Upload(ctx, key, upload.Content, upload.Size, info.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to storage: %w", err)
	}

	actor := domain.ActorFromContext(ctx)
	file := &domain.DeliveryFile{
		ID:           uuid.New(),
		DeliveryID:   deliveryID,
		FileName:     upload.Name,
		FileURL:      url,
		FileType:     info.ContentType,
		FileSize:     upload.Size,
		PageCount:    info.PageCount,
		FileCategory: category,
		UploadedBy:   &actor,
		CreatedAt:    s.now().UTC(),
	}
	if notes != "" {
		file.Notes = &notes
	}

	if err := s.files.Create(ctx, file); err != nil {
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned blob",
				slog.String("key", key),
				slog.String("error", delErr.Error()))
		}
		return nil, fmt.Errorf("failed to record file: %w", err)
	}

	return file, nil
}

// resolveContentTypes fills in sniffed content types for uploads that did not declare one.
func resolveContentTypes(files []domain.FileUpload) error {
	for i := range files {
		info, err := fileinspect.Inspect(files[i].Content, files[i].ContentType)
		if err != nil {
			return fmt.Errorf("failed to inspect %s: %w", files[i].Name, err)
		}
		files[i].ContentType = info.ContentType
	}
	return nil
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
