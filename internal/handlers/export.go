// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

const (
	exportPageSize = 500
	exportMaxRows  = 50000
	exportSheet    = "Entregas"
)

var exportColumns = []string{
	"Tracking", "Status", "Delivery Date", "Order ID", "Workshop ID",
	"Synced", "Sync Attempts", "Last Sync Attempt", "Locked By", "Notes", "Created At",
}

// ExportHandler streams delivery listings as spreadsheets
type ExportHandler struct {
	service ports.DeliveryService
	logger  *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ports.DeliveryService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "export")),
	}
}

// ExportDeliveries handles GET /api/v1/deliveries/export. It accepts the same
// filters as the listing and ignores limit and offset.
func (h *ExportHandler) ExportDeliveries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseDeliveryFilter(r)
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	deliveries, err := h.collect(ctx, filter)
	if err != nil {
		respondDomainError(ctx, h.logger, w, err, "export deliveries")
		return
	}

	data, err := buildDeliveryWorkbook(deliveries)
	if err != nil {
		respondDomainError(ctx, h.logger, w, err, "export deliveries")
		return
	}

	filename := fmt.Sprintf("entregas_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write export", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "deliveries exported",
		slog.Int("rows", len(deliveries)),
		slog.String("filename", filename))
}

func (h *ExportHandler) collect(ctx context.Context, filter domain.DeliveryFilter) ([]domain.Delivery, error) {
	filter.Limit = exportPageSize
	filter.Offset = 0

	var all []domain.Delivery
	for len(all) < exportMaxRows {
		page, err := h.service.ListDeliveries(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if len(page.Items) < filter.Limit || int64(len(all)) >= page.TotalCount {
			break
		}
		filter.Offset += len(page.Items)
	}
	return all, nil
}

func buildDeliveryWorkbook(deliveries []domain.Delivery) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for i, col := range exportColumns {
		cell := header.AddCell()
		cell.SetString(col)
		cell.GetStyle().Font.Bold = true
		sheet.SetColWidth(i+1, i+1, 18)
	}

	for _, d := range deliveries {
		row := sheet.AddRow()
		row.AddCell().SetString(d.TrackingNumber)
		row.AddCell().SetString(string(d.Status))
		row.AddCell().SetDateTime(d.DeliveryDate)
		row.AddCell().SetString(d.OrderID.String())
		row.AddCell().SetString(optionalID(d.WorkshopID))
		row.AddCell().SetBool(d.SyncedToShopify)
		row.AddCell().SetInt(d.SyncAttempts)
		if d.LastSyncAttempt != nil {
			row.AddCell().SetDateTime(*d.LastSyncAttempt)
		} else {
			row.AddCell()
		}
		row.AddCell().SetString(optionalString(d.SyncLockAcquiredBy))
		row.AddCell().SetString(optionalString(d.Notes))
		row.AddCell().SetDateTime(d.CreatedAt)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
