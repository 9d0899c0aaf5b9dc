// internal/handlers/middleware/middleware_test.go
package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/handlers/middleware"
	"github.com/ammerola/atelier-ops/internal/pkg/logger"
	"github.com/ammerola/atelier-ops/test/helpers"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID("X-Request-ID")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(logger.ContextKeyRequestID).(string)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		existing string
		check    func(t *testing.T, header string)
	}{
		{
			name: "generates_new_request_id",
			check: func(t *testing.T, header string) {
				assert.Len(t, header, 36)
			},
		},
		{
			name:     "uses_existing_request_id",
			existing: "existing-id-123",
			check: func(t *testing.T, header string) {
				assert.Equal(t, "existing-id-123", header)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.existing != "" {
				req.Header.Set("X-Request-ID", tt.existing)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			header := w.Header().Get("X-Request-ID")
			tt.check(t, header)
			assert.Equal(t, header, seen)
		})
	}
}

func TestActor(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "header_sets_actor", header: "user-42", want: "user-42"},
		{name: "missing_header_is_system", want: domain.SystemActor},
		{name: "blank_header_is_system", header: "   ", want: domain.SystemActor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := middleware.Actor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = domain.ActorFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(middleware.ActorHeader, tt.header)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewLogger(&logger.LogConfig{Level: "info", Format: "json", Writer: &buf})

	handler := middleware.Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), middleware.RequestID(""), middleware.Logger(l))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deliveries/x", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	out := buf.String()
	assert.Contains(t, out, "request_completed")
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, w.Header().Get("X-Request-ID"))
}

func TestLogger_TagsDeliveryID(t *testing.T) {
	deliveryID := uuid.New()

	tests := []struct {
		name    string
		path    string
		wantTag bool
	}{
		{name: "delivery_route", path: "/api/v1/deliveries/" + deliveryID.String(), wantTag: true},
		{name: "nested_delivery_route", path: "/api/v1/deliveries/" + deliveryID.String() + "/sync-lock", wantTag: true},
		{name: "export_route", path: "/api/v1/deliveries/export"},
		{name: "other_route", path: "/api/v1/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := logger.NewLogger(&logger.LogConfig{Level: "info", Format: "json", Writer: &buf})

			handler := middleware.Logger(l)(http.HandlerFunc(okHandler))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			if tt.wantTag {
				assert.Contains(t, buf.String(), `"delivery_id":"`+deliveryID.String()+`"`)
				assert.Equal(t, 1, strings.Count(buf.String(), `"delivery_id"`))
			} else {
				assert.NotContains(t, buf.String(), "delivery_id")
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name           string
		handler        http.HandlerFunc
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "recovers_from_panic",
			handler: func(http.ResponseWriter, *http.Request) {
				panic("test panic")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Internal Server Error",
		},
		{
			name:           "passes_through_normal_response",
			handler:        okHandler,
			expectedStatus: http.StatusOK,
			expectedBody:   "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := middleware.Recovery(helpers.TestLogger())(tt.handler)

			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestRateLimit(t *testing.T) {
	wrapped := middleware.RateLimit(2, time.Minute)(http.HandlerFunc(okHandler))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("127.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, send("127.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, send("127.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, send("192.168.1.1:5678"), "limits are per client")
}

func TestRateLimit_PerActor(t *testing.T) {
	wrapped := middleware.RateLimit(1, time.Minute)(http.HandlerFunc(okHandler))

	send := func(actor string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.5:4000"
		if actor != "" {
			req.Header.Set(middleware.ActorHeader, actor)
		}
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("reviewer-1").Code)
	assert.Equal(t, http.StatusOK, send("reviewer-2").Code, "staff behind one office IP have separate limits")
	assert.Equal(t, http.StatusOK, send("").Code)

	limited := send("reviewer-1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	retryAfter, err := strconv.Atoi(limited.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.InDelta(t, 60, retryAfter, 1)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		allowedOrigins []string
		origin         string
		method         string
		expectedStatus int
		checkHeaders   func(*testing.T, http.Header)
	}{
		{
			name:           "allows_wildcard_origin",
			allowedOrigins: []string{"*"},
			origin:         "https://ops.example.com",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			checkHeaders: func(t *testing.T, h http.Header) {
				assert.Equal(t, "https://ops.example.com", h.Get("Access-Control-Allow-Origin"))
			},
		},
		{
			name:           "preflight_lists_actor_header",
			allowedOrigins: []string{"https://ops.example.com"},
			origin:         "https://ops.example.com",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
			checkHeaders: func(t *testing.T, h http.Header) {
				assert.Contains(t, h.Get("Access-Control-Allow-Headers"), middleware.ActorHeader)
				assert.NotEmpty(t, h.Get("Access-Control-Allow-Methods"))
			},
		},
		{
			name:           "blocks_unallowed_origin",
			allowedOrigins: []string{"https://allowed.com"},
			origin:         "https://notallowed.com",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			checkHeaders: func(t *testing.T, h http.Header) {
				assert.Empty(t, h.Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "Origin", h.Get("Vary"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := middleware.CORS(tt.allowedOrigins)(http.HandlerFunc(okHandler))

			req := httptest.NewRequest(tt.method, "/test", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkHeaders(t, w.Header())
		})
	}
}

func TestSecureHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	middleware.SecureHeaders(http.HandlerFunc(okHandler)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	handler := middleware.Timeout(50 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
}
