// internal/core/services/delivery_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/internal/core/services"
	"github.com/ammerola/atelier-ops/test/helpers"
	"github.com/ammerola/atelier-ops/test/mocks"
)

type deliveryMocks struct {
	deliveries *mocks.MockDeliveryRepository
	catalog    *mocks.MockCatalogRepository
	evidence   *mocks.MockEvidenceService
	sync       *mocks.MockInventorySyncService
	tasks      *mocks.MockTaskQueue
}

func newDeliveryService(t *testing.T, cfg services.DeliveryConfig) (*services.DeliveryService, *deliveryMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &deliveryMocks{
		deliveries: mocks.NewMockDeliveryRepository(ctrl),
		catalog:    mocks.NewMockCatalogRepository(ctrl),
		evidence:   mocks.NewMockEvidenceService(ctrl),
		sync:       mocks.NewMockInventorySyncService(ctrl),
		tasks:      mocks.NewMockTaskQueue(ctrl),
	}
	svc := services.NewDeliveryService(m.deliveries, m.catalog, m.evidence, m.sync, m.tasks, cfg, helpers.TestLogger())
	return svc, m
}

func TestDeliveryService_CreateDelivery(t *testing.T) {
	order := &domain.Order{ID: uuid.New(), OrderNumber: "OP-1001"}
	workshopID := uuid.New()
	itemA, itemB := uuid.New(), uuid.New()

	baseInput := func() ports.CreateDeliveryInput {
		return ports.CreateDeliveryInput{
			OrderID: order.ID,
			Items: []ports.CreateDeliveryItemInput{
				{OrderItemID: itemA, QuantityDelivered: 10},
				{OrderItemID: itemB, QuantityDelivered: 4},
			},
			Notes: "Llegó con una caja rota",
		}
	}
	foundItems := []domain.OrderItem{{ID: itemA, OrderID: order.ID}, {ID: itemB, OrderID: order.ID}}

	expectCreate := func(m *deliveryMocks) {
		m.catalog.EXPECT().FindOrder(gomock.Any(), order.ID).Return(order, nil)
		m.catalog.EXPECT().FindOrderItems(gomock.Any(), []uuid.UUID{itemA, itemB}).Return(foundItems, nil)
		m.deliveries.EXPECT().GenerateTrackingNumber(gomock.Any()).Return("0042", nil)
		m.deliveries.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		m.deliveries.EXPECT().CreateItems(gomock.Any(), gomock.Len(2)).Return(nil)
	}

	tests := []struct {
		name          string
		input         func() ports.CreateDeliveryInput
		setupMocks    func(*deliveryMocks)
		expectedError error
		check         func(t *testing.T, res *ports.CreateDeliveryResult, err error)
	}{
		{
			name:       "creates_pending_delivery_without_files",
			input:      baseInput,
			setupMocks: expectCreate,
			check: func(t *testing.T, res *ports.CreateDeliveryResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, ports.CreateOutcomeNoFiles, res.Outcome)
				assert.Equal(t, "0042", res.Delivery.TrackingNumber)
				assert.Equal(t, domain.DeliveryStatusPending, res.Delivery.Status)
				require.NotNil(t, res.Delivery.UserObservations)
				assert.Equal(t, "Llegó con una caja rota", *res.Delivery.UserObservations)
				assert.Nil(t, res.Delivery.Notes)
				require.Len(t, res.Delivery.Items, 2)
				for _, item := range res.Delivery.Items {
					assert.Equal(t, res.Delivery.ID, item.DeliveryID)
					assert.Equal(t, domain.QualityStatusPending, item.QualityStatus)
					assert.Zero(t, item.QuantityApproved)
				}
			},
		},
		{
			name:  "order_not_found",
			input: baseInput,
			setupMocks: func(m *deliveryMocks) {
				m.catalog.EXPECT().FindOrder(gomock.Any(), order.ID).Return(nil, nil)
			},
			expectedError: domain.ErrOrderNotFound,
		},
		{
			name:  "lists_exactly_the_missing_order_items",
			input: baseInput,
			setupMocks: func(m *deliveryMocks) {
				m.catalog.EXPECT().FindOrder(gomock.Any(), order.ID).Return(order, nil)
				m.catalog.EXPECT().FindOrderItems(gomock.Any(), gomock.Any()).Return(foundItems[:1], nil)
			},
			check: func(t *testing.T, res *ports.CreateDeliveryResult, err error) {
				var missing *domain.MissingOrderItemsError
				require.True(t, errors.As(err, &missing))
				assert.Equal(t, []uuid.UUID{itemB}, missing.IDs)
				assert.True(t, domain.IsValidation(err))
			},
		},
		{
			name: "unknown_workshop_is_dropped_with_warning",
			input: func() ports.CreateDeliveryInput {
				in := baseInput()
				in.WorkshopID = &workshopID
				return in
			},
			setupMocks: func(m *deliveryMocks) {
				m.catalog.EXPECT().FindWorkshop(gomock.Any(), workshopID).Return(nil, nil)
				expectCreate(m)
			},
			check: func(t *testing.T, res *ports.CreateDeliveryResult, err error) {
				require.NoError(t, err)
				assert.Nil(t, res.Delivery.WorkshopID)
			},
		},
		{
			name: "known_workshop_is_kept",
			input: func() ports.CreateDeliveryInput {
				in := baseInput()
				in.WorkshopID = &workshopID
				return in
			},
			setupMocks: func(m *deliveryMocks) {
				m.catalog.EXPECT().FindWorkshop(gomock.Any(), workshopID).Return(&domain.Workshop{ID: workshopID, Name: "Taller"}, nil)
				expectCreate(m)
			},
			check: func(t *testing.T, res *ports.CreateDeliveryResult, err error) {
				require.NoError(t, err)
				require.NotNil(t, res.Delivery.WorkshopID)
				assert.Equal(t, workshopID, *res.Delivery.WorkshopID)
			},
		},
		{
			name: "unsupported_file_type_rejects_before_any_write",
			input: func() ports.CreateDeliveryInput {
				in := baseInput()
				in.Files = []domain.FileUpload{
					helpers.Upload("factura.png", "image/png", helpers.PNGBytes),
					helpers.Upload("notas.txt", "text/plain", []byte("hola")),
				}
				return in
			},
			setupMocks:    func(m *deliveryMocks) {},
			expectedError: domain.ErrUnsupportedFileType,
		},
		{
			name:  "compensates_delivery_when_items_fail",
			input: baseInput,
			setupMocks: func(m *deliveryMocks) {
				m.catalog.EXPECT().FindOrder(gomock.Any(), order.ID).Return(order, nil)
				m.catalog.EXPECT().FindOrderItems(gomock.Any(), gomock.Any()).Return(foundItems, nil)
				m.deliveries.EXPECT().GenerateTrackingNumber(gomock.Any()).Return("0043", nil)
				var created uuid.UUID
				gomock.InOrder(
					m.deliveries.EXPECT().Create(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, d *domain.Delivery) error {
							created = d.ID
							return nil
						}),
					m.deliveries.EXPECT().CreateItems(gomock.Any(), gomock.Any()).Return(errors.New("fk violation")),
					m.deliveries.EXPECT().Delete(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, id uuid.UUID) error {
							assert.Equal(t, created, id)
							return nil
						}),
				)
			},
			check: func(t *testing.T, res *ports.CreateDeliveryResult, err error) {
				require.Error(t, err)
				assert.Nil(t, res)
				assert.Contains(t, err.Error(), "fk violation")
			},
		},
		{
			name: "partial_file_failures_still_create_delivery",
			input: func() ports.CreateDeliveryInput {
				in := baseInput()
				in.Files = []domain.FileUpload{
					helpers.Upload("factura.png", "image/png", helpers.PNGBytes),
					helpers.Upload("remision.png", "", helpers.PNGBytes),
					{Name: "vacio.pdf", ContentType: "application/pdf"},
				}
				return in
			},
			setupMocks: func(m *deliveryMocks) {
				expectCreate(m)
				m.evidence.EXPECT().UploadInvoiceFiles(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ uuid.UUID, files []domain.FileUpload) *domain.UploadSummary {
						require.Len(t, files, 2, "malformed uploads are dropped")
						assert.Equal(t, "image/png", files[1].ContentType, "missing type is sniffed")
						return &domain.UploadSummary{Uploaded: 1, Failed: 1, Errors: []string{"remision.png: timeout"}}
					})
			},
			check: func(t *testing.T, res *ports.CreateDeliveryResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, ports.CreateOutcomePartialFiles, res.Outcome)
				assert.Equal(t, 1, res.Files.Failed)
				assert.Contains(t, res.Message, "1 of 2")
			},
		},
		{
			name: "all_files_uploaded",
			input: func() ports.CreateDeliveryInput {
				in := baseInput()
				in.Files = []domain.FileUpload{helpers.Upload("factura.png", "image/png", helpers.PNGBytes)}
				return in
			},
			setupMocks: func(m *deliveryMocks) {
				expectCreate(m)
				m.evidence.EXPECT().UploadInvoiceFiles(gomock.Any(), gomock.Any(), gomock.Len(1)).
					Return(&domain.UploadSummary{Uploaded: 1, Files: []domain.DeliveryFile{{FileName: "factura.png"}}})
			},
			check: func(t *testing.T, res *ports.CreateDeliveryResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, ports.CreateOutcomeComplete, res.Outcome)
				assert.Len(t, res.Delivery.Files, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newDeliveryService(t, services.DeliveryConfig{})
			tt.setupMocks(m)

			res, err := svc.CreateDelivery(context.Background(), tt.input())
			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			tt.check(t, res, err)
		})
	}
}

func TestDeliveryService_UpdateDeliveryQuantities(t *testing.T) {
	deliveryID := uuid.New()
	itemA, itemB := uuid.New(), uuid.New()
	updates := []ports.QuantityUpdate{
		{ItemID: itemA, QuantityDelivered: 12},
		{ItemID: itemB, QuantityDelivered: 3},
	}

	delivery := func(status domain.DeliveryStatus, synced bool) *domain.Delivery {
		return helpers.CreateTestDelivery(func(d *domain.Delivery) {
			d.ID = deliveryID
			d.Status = status
			d.SyncedToShopify = synced
		})
	}

	tests := []struct {
		name          string
		updates       []ports.QuantityUpdate
		setupMocks    func(*deliveryMocks)
		expectedError error
		errorContains string
	}{
		{
			name:    "pending_unsynced_delivery_is_editable",
			updates: updates,
			setupMocks: func(m *deliveryMocks) {
				m.deliveries.EXPECT().FindByID(gomock.Any(), deliveryID).Return(delivery(domain.DeliveryStatusPending, false), nil)
				gomock.InOrder(
					m.deliveries.EXPECT().UpdateItemQuantity(gomock.Any(), deliveryID, itemA, 12).Return(nil),
					m.deliveries.EXPECT().UpdateItemQuantity(gomock.Any(), deliveryID, itemB, 3).Return(nil),
				)
			},
		},
		{
			name:    "in_quality_delivery_is_editable",
			updates: updates[:1],
			setupMocks: func(m *deliveryMocks) {
				m.deliveries.EXPECT().FindByID(gomock.Any(), deliveryID).Return(delivery(domain.DeliveryStatusInQuality, false), nil)
				m.deliveries.EXPECT().UpdateItemQuantity(gomock.Any(), deliveryID, itemA, 12).Return(nil)
			},
		},
		{
			name:    "approved_delivery_is_rejected_before_any_write",
			updates: updates,
			setupMocks: func(m *deliveryMocks) {
				m.deliveries.EXPECT().FindByID(gomock.Any(), deliveryID).Return(delivery(domain.DeliveryStatusApproved, false), nil)
			},
			expectedError: domain.ErrQuantityEditForbidden,
		},
		{
			name:    "synced_delivery_is_rejected_before_any_write",
			updates: updates,
			setupMocks: func(m *deliveryMocks) {
				m.deliveries.EXPECT().FindByID(gomock.Any(), deliveryID).Return(delivery(domain.DeliveryStatusPending, true), nil)
			},
			expectedError: domain.ErrQuantityEditForbidden,
		},
		{
			name:    "missing_delivery",
			updates: updates,
			setupMocks: func(m *deliveryMocks) {
				m.deliveries.EXPECT().FindByID(gomock.Any(), deliveryID).Return(nil, nil)
			},
			expectedError: domain.ErrDeliveryNotFound,
		},
		{
			name:    "negative_quantity_is_rejected",
			updates: []ports.QuantityUpdate{{ItemID: itemA, QuantityDelivered: -1}},
			setupMocks: func(m *deliveryMocks) {
				m.deliveries.EXPECT().FindByID(gomock.Any(), deliveryID).Return(delivery(domain.DeliveryStatusPending, false), nil)
			},
			expectedError: domain.ErrInvalidQuantity,
		},
		{
			name:    "failure_stops_and_keeps_earlier_updates",
			updates: updates,
			setupMocks: func(m *deliveryMocks) {
				m.deliveries.EXPECT().FindByID(gomock.Any(), deliveryID).Return(delivery(domain.DeliveryStatusPending, false), nil)
				gomock.InOrder(
					m.deliveries.EXPECT().UpdateItemQuantity(gomock.Any(), deliveryID, itemA, 12).Return(nil),
					m.deliveries.EXPECT().UpdateItemQuantity(gomock.Any(), deliveryID, itemB, 3).Return(domain.ErrDeliveryItemNotFound),
				)
			},
			expectedError: domain.ErrDeliveryItemNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newDeliveryService(t, services.DeliveryConfig{})
			tt.setupMocks(m)

			err := svc.UpdateDeliveryQuantities(context.Background(), deliveryID, tt.updates)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDeliveryService_GetAndList(t *testing.T) {
	ctx := context.Background()

	t.Run("get_missing_delivery", func(t *testing.T) {
		svc, m := newDeliveryService(t, services.DeliveryConfig{})
		id := uuid.New()
		m.deliveries.EXPECT().FindWithItems(gomock.Any(), id).Return(nil, nil)

		_, err := svc.GetDelivery(ctx, id)
		assert.ErrorIs(t, err, domain.ErrDeliveryNotFound)
	})

	t.Run("list_normalizes_filter", func(t *testing.T) {
		svc, m := newDeliveryService(t, services.DeliveryConfig{})
		m.deliveries.EXPECT().List(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f domain.DeliveryFilter) ([]domain.Delivery, int64, error) {
				assert.Equal(t, 50, f.Limit)
				assert.Equal(t, 0, f.Offset)
				assert.Equal(t, domain.DeliveryStatusApproved, f.Status)
				return nil, 0, nil
			})

		list, err := svc.ListDeliveries(ctx, domain.DeliveryFilter{Status: domain.DeliveryStatusApproved, Limit: 9000, Offset: -3})
		require.NoError(t, err)
		assert.NotNil(t, list.Items)
		assert.Empty(t, list.Items)
		assert.Equal(t, 50, list.Limit)
	})

	t.Run("delete_passes_through_errors", func(t *testing.T) {
		svc, m := newDeliveryService(t, services.DeliveryConfig{})
		id := uuid.New()
		m.deliveries.EXPECT().Delete(gomock.Any(), id).Return(domain.ErrDeliveryNotFound)

		err := svc.DeleteDelivery(domain.WithActor(ctx, "user-7"), id)
		assert.ErrorIs(t, err, domain.ErrDeliveryNotFound)
	})
}
