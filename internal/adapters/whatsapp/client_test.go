package whatsapp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/atelier-ops/internal/adapters/whatsapp"
	"github.com/ammerola/atelier-ops/test/helpers"
)

func TestClient_SendText(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		status    int
		response  string
		wantErr   string
		wantCalls int32
	}{
		{
			name:      "sends_text_message",
			enabled:   true,
			status:    http.StatusOK,
			response:  `{"messages":[{"id":"wamid.1"}]}`,
			wantCalls: 1,
		},
		{
			name:      "api_error_is_returned",
			enabled:   true,
			status:    http.StatusBadRequest,
			response:  `{"error":{"message":"Recipient phone number not in allowed list","code":131030}}`,
			wantErr:   "Recipient phone number not in allowed list",
			wantCalls: 1,
		},
		{
			name:      "disabled_sends_nothing",
			enabled:   false,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				assert.Equal(t, "/1234567890/messages", r.URL.Path)
				assert.Equal(t, "Bearer wa-token", r.Header.Get("Authorization"))

				var body map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "whatsapp", body["messaging_product"])
				assert.Equal(t, "573001234567", body["to"])
				assert.Equal(t, "text", body["type"])
				text, _ := body["text"].(map[string]any)
				assert.Equal(t, "Entrega 0042 revisada", text["body"])

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client := whatsapp.NewClient(whatsapp.Config{
				Enabled:       tt.enabled,
				APIBaseURL:    server.URL + "/",
				PhoneNumberID: "1234567890",
				Token:         "wa-token",
			}, helpers.TestLogger())

			err := client.SendText(context.Background(), "573001234567", "Entrega 0042 revisada")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}
