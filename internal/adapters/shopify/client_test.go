package shopify_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/atelier-ops/internal/adapters/shopify"
	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/test/helpers"
)

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestInventorySyncClient_RequestShape(t *testing.T) {
	deliveryID := uuid.New()
	variantID := uuid.New()

	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, `{"success":true,"summary":{"successful":1,"failed":0,"already_synced":0}}`)
	}))
	defer server.Close()

	client := shopify.NewInventorySyncClient(shopify.Config{
		FunctionURL: server.URL,
		Token:       "secret-token",
		Timeout:     time.Second,
	}, helpers.TestLogger())

	_, err := client.PushInventory(context.Background(), domain.SyncRequest{
		DeliveryID: deliveryID,
		Items: []domain.SyncItem{{
			DeliveryItemID:   uuid.New(),
			VariantID:        variantID,
			SKUVariant:       "CAM-OX-M-NEG",
			QuantityApproved: 5,
		}},
		IntelligentSync: true,
	})
	require.NoError(t, err)

	assert.Equal(t, deliveryID.String(), got["deliveryId"])
	assert.Equal(t, true, got["intelligentSync"])
	items, ok := got["approvedItems"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, map[string]any{
		"variantId":        variantID.String(),
		"skuVariant":       "CAM-OX-M-NEG",
		"quantityApproved": float64(5),
	}, items[0])
}

func TestInventorySyncClient_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(t *testing.T, outcome domain.SyncOutcome)
		wantErr domain.SyncErrorKind
	}{
		{
			name:   "success_with_results",
			status: http.StatusOK,
			body: `{"success":true,"summary":{"successful":1,"failed":1,"already_synced":2},
				"results":[{"skuVariant":"A","success":true},{"skuVariant":"B","success":false,"error":"variant not found"}],
				"diagnostics":{"location":"main"}}`,
			check: func(t *testing.T, outcome domain.SyncOutcome) {
				ok, isOK := outcome.(domain.SyncSucceeded)
				require.True(t, isOK)
				assert.Equal(t, domain.SyncSummary{Successful: 1, Failed: 1, AlreadySynced: 2}, ok.Summary)
				require.Len(t, ok.Results, 2)
				assert.False(t, ok.Results[1].Success)
				assert.Equal(t, "variant not found", ok.Results[1].Error)
				assert.Equal(t, "main", ok.Diagnostics["location"])
			},
		},
		{
			name:   "conflict_is_in_progress",
			status: http.StatusConflict,
			body:   `{"success":false,"error":"sync_in_progress","details":{"lock_acquired_at":"2026-10-19T10:00:00Z","tracking_number":"0042"}}`,
			check: func(t *testing.T, outcome domain.SyncOutcome) {
				ip, ok := outcome.(domain.SyncInProgress)
				require.True(t, ok)
				assert.Equal(t, "0042", ip.TrackingNumber)
				assert.True(t, ip.Lock.IsHeld)
				require.NotNil(t, ip.Lock.AcquiredAt)
				assert.Equal(t, 10, ip.Lock.AcquiredAt.Hour())
			},
		},
		{
			name:   "in_progress_error_with_ok_status",
			status: http.StatusOK,
			body:   `{"success":false,"error":"sync_in_progress"}`,
			check: func(t *testing.T, outcome domain.SyncOutcome) {
				_, ok := outcome.(domain.SyncInProgress)
				assert.True(t, ok)
			},
		},
		{
			name:    "too_many_requests_is_rate_limited_error",
			status:  http.StatusTooManyRequests,
			body:    `{"success":false,"error":"Shopify API rate limit exceeded"}`,
			wantErr: domain.SyncErrorRateLimited,
		},
		{
			name:   "server_error_is_failed",
			status: http.StatusInternalServerError,
			body:   `{"success":false,"error":"internal error"}`,
			check: func(t *testing.T, outcome domain.SyncOutcome) {
				failed, ok := outcome.(domain.SyncFailed)
				require.True(t, ok)
				assert.Equal(t, domain.SyncErrorOther, failed.Kind)
				assert.Equal(t, "internal error", failed.Reason)
			},
		},
		{
			name:   "unsuccessful_body_is_classified",
			status: http.StatusOK,
			body:   `{"success":false,"error":"rate limit reached for store"}`,
			check: func(t *testing.T, outcome domain.SyncOutcome) {
				failed, ok := outcome.(domain.SyncFailed)
				require.True(t, ok)
				assert.Equal(t, domain.SyncErrorRateLimited, failed.Kind)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}))
			defer server.Close()

			client := shopify.NewInventorySyncClient(shopify.Config{FunctionURL: server.URL}, helpers.TestLogger())
			outcome, err := client.PushInventory(context.Background(), domain.SyncRequest{DeliveryID: uuid.New()})

			if tt.wantErr != "" {
				require.Error(t, err)
				var syncErr *domain.SyncError
				require.True(t, errors.As(err, &syncErr))
				assert.Equal(t, tt.wantErr, syncErr.Kind)
				return
			}
			require.NoError(t, err)
			tt.check(t, outcome)
		})
	}
}

func TestInventorySyncClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := shopify.NewInventorySyncClient(shopify.Config{FunctionURL: url, Timeout: time.Second}, helpers.TestLogger())
	_, err := client.PushInventory(context.Background(), domain.SyncRequest{DeliveryID: uuid.New()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to call sync function")
}

func TestInventorySyncClient_RespectsCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true}`)
	}))
	defer server.Close()

	client := shopify.NewInventorySyncClient(shopify.Config{FunctionURL: server.URL, RatePerSecond: 0.001}, helpers.TestLogger())

	_, err := client.PushInventory(context.Background(), domain.SyncRequest{DeliveryID: uuid.New()})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.PushInventory(ctx, domain.SyncRequest{DeliveryID: uuid.New()})
	assert.Error(t, err, "second call must wait on the limiter and give up with the context")
}
