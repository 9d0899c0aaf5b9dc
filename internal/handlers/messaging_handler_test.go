// internal/handlers/messaging_handler_test.go
package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/internal/handlers"
	"github.com/ammerola/atelier-ops/test/helpers"
	"github.com/ammerola/atelier-ops/test/mocks"
)

func TestMessagingHandler_DeliveryLookup(t *testing.T) {
	deliveryID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockMessagingService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "answers_known_code",
			body: `{"from":"+57 300 123 4567","text":"hola, como va la entrega 0042?"}`,
			setupMocks: func(m *mocks.MockMessagingService) {
				m.EXPECT().
					LookupDelivery(gomock.Any(), "+57 300 123 4567", "hola, como va la entrega 0042?").
					Return(&ports.DeliveryLookup{
						Code:           "0042",
						Phone:          "573001234567",
						DeliveryID:     deliveryID,
						TrackingNumber: "0042",
						Status:         domain.DeliveryStatusInQuality,
						Reply:          "La entrega 0042 está en revisión de calidad.",
					}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var resp ports.DeliveryLookup
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, deliveryID, resp.DeliveryID)
				assert.Equal(t, domain.DeliveryStatusInQuality, resp.Status)
			},
		},
		{
			name:           "missing_text",
			body:           `{"from":"573001234567"}`,
			setupMocks:     func(m *mocks.MockMessagingService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "message_without_code",
			body: `{"text":"buenos dias"}`,
			setupMocks: func(m *mocks.MockMessagingService) {
				m.EXPECT().LookupDelivery(gomock.Any(), "", "buenos dias").Return(nil, domain.ErrNoDeliveryCode)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown_code",
			body: `{"text":"entrega 9999"}`,
			setupMocks: func(m *mocks.MockMessagingService) {
				m.EXPECT().
					LookupDelivery(gomock.Any(), "", "entrega 9999").
					Return(nil, fmt.Errorf("%w: 9999", domain.ErrDeliveryNotFound))
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body []byte) {
				assert.Contains(t, decodeError(t, body).Error, "9999")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mocks.NewMockMessagingService(ctrl)
			tt.setupMocks(service)
			handler := handlers.NewMessagingHandler(service, helpers.TestLogger())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/messaging/delivery-lookup", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.DeliveryLookup(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}
