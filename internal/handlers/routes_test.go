// internal/handlers/routes_test.go
package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/internal/handlers"
	"github.com/ammerola/atelier-ops/test/helpers"
	"github.com/ammerola/atelier-ops/test/mocks"
)

func TestRoutes_Register(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		method         string
		target         string
		setupMocks     func(delivery *mocks.MockDeliveryService, sync *mocks.MockInventorySyncService)
		expectedStatus int
	}{
		{
			name:   "export_is_not_shadowed_by_id",
			method: http.MethodGet,
			target: "/api/v1/deliveries/export",
			setupMocks: func(delivery *mocks.MockDeliveryService, _ *mocks.MockInventorySyncService) {
				delivery.EXPECT().ListDeliveries(gomock.Any(), gomock.Any()).Return(&ports.DeliveryList{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "get_delivery_by_id",
			method: http.MethodGet,
			target: "/api/v1/deliveries/" + id.String(),
			setupMocks: func(delivery *mocks.MockDeliveryService, _ *mocks.MockInventorySyncService) {
				delivery.EXPECT().GetDelivery(gomock.Any(), id).Return(helpers.CreateTestDelivery(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "lock_status",
			method: http.MethodGet,
			target: "/api/v1/deliveries/" + id.String() + "/sync-lock",
			setupMocks: func(_ *mocks.MockDeliveryService, sync *mocks.MockInventorySyncService) {
				sync.EXPECT().CheckSyncLockStatus(gomock.Any(), id).Return(&domain.LockInfo{DeliveryID: id}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong_method",
			method:         http.MethodPut,
			target:         "/api/v1/deliveries/" + id.String(),
			setupMocks:     func(*mocks.MockDeliveryService, *mocks.MockInventorySyncService) {},
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "unknown_path",
			method:         http.MethodGet,
			target:         "/api/v1/inventory",
			setupMocks:     func(*mocks.MockDeliveryService, *mocks.MockInventorySyncService) {},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			delivery := mocks.NewMockDeliveryService(ctrl)
			sync := mocks.NewMockInventorySyncService(ctrl)
			tt.setupMocks(delivery, sync)

			log := helpers.TestLogger()
			mux := http.NewServeMux()
			handlers.Routes{
				Delivery: handlers.NewDeliveryHandler(delivery, 5, log),
				Sync:     handlers.NewSyncHandler(sync, log),
				Export:   handlers.NewExportHandler(delivery, log),
			}.Register(mux)

			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
