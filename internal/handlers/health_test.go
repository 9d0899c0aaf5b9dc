// internal/handlers/health_test.go
package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/atelier-ops/internal/handlers"
	"github.com/ammerola/atelier-ops/internal/pkg/config"
	"github.com/ammerola/atelier-ops/test/helpers"
	"github.com/ammerola/atelier-ops/test/mocks"
)

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name           string
		lockBackend    string
		setupMocks     func(db *mocks.MockDatabase)
		expectedStatus int
		validate       func(t *testing.T, health handlers.HealthStatus)
	}{
		{
			name:        "all_healthy",
			lockBackend: config.LockBackendDB,
			setupMocks: func(db *mocks.MockDatabase) {
				db.EXPECT().Ping(gomock.Any()).Return(nil)
				db.EXPECT().Health(gomock.Any()).Return(map[string]interface{}{"status": "healthy", "total_connections": 3})
				db.EXPECT().QueryRow(gomock.Any(), gomock.Any(), gomock.Any()).Return(fakeRow{values: []int64{2, 0}})
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, health handlers.HealthStatus) {
				assert.Equal(t, "healthy", health.Status)
				assert.Contains(t, health.Services, "database")
				assert.Contains(t, health.Services, "redis")
				assert.EqualValues(t, 2, health.Services["sync_locks"].Details["held"])
			},
		},
		{
			name:        "stale_lock_degrades",
			lockBackend: config.LockBackendDB,
			setupMocks: func(db *mocks.MockDatabase) {
				db.EXPECT().Ping(gomock.Any()).Return(nil)
				db.EXPECT().Health(gomock.Any()).Return(map[string]interface{}{"status": "healthy"})
				db.EXPECT().QueryRow(gomock.Any(), gomock.Any(), gomock.Any()).Return(fakeRow{values: []int64{3, 1}})
			},
			expectedStatus: http.StatusServiceUnavailable,
			validate: func(t *testing.T, health handlers.HealthStatus) {
				assert.Equal(t, "degraded", health.Status)
				assert.Equal(t, "degraded", health.Services["sync_locks"].Status)
				assert.Equal(t, "healthy", health.Services["database"].Status)
			},
		},
		{
			name:        "database_down",
			lockBackend: config.LockBackendRedis,
			setupMocks: func(db *mocks.MockDatabase) {
				db.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
			},
			expectedStatus: http.StatusServiceUnavailable,
			validate: func(t *testing.T, health handlers.HealthStatus) {
				assert.Equal(t, "unhealthy", health.Services["database"].Status)
				assert.NotContains(t, health.Services, "sync_locks")
			},
		},
		{
			name:        "slow_database_is_degraded",
			lockBackend: config.LockBackendRedis,
			setupMocks: func(db *mocks.MockDatabase) {
				db.EXPECT().Ping(gomock.Any()).Return(nil)
				db.EXPECT().Health(gomock.Any()).Return(map[string]interface{}{"status": "degraded", "latency_ms": 900})
			},
			expectedStatus: http.StatusServiceUnavailable,
			validate: func(t *testing.T, health handlers.HealthStatus) {
				assert.Equal(t, "degraded", health.Services["database"].Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			db := mocks.NewMockDatabase(ctrl)
			tt.setupMocks(db)

			testRedis := helpers.SetupTestRedis(t)
			cfg := helpers.LoadTestConfig()
			cfg.Sync.LockBackend = tt.lockBackend

			handler := handlers.NewHealthHandler(db, testRedis.Client, nil, cfg, helpers.TestLogger())

			w := httptest.NewRecorder()
			handler.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			var health handlers.HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
			tt.validate(t, health)
		})
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ctrl := gomock.NewController(t)
	db := mocks.NewMockDatabase(ctrl)
	db.EXPECT().Ping(gomock.Any()).Return(nil)

	testRedis := helpers.SetupTestRedis(t)
	handler := handlers.NewHealthHandler(db, testRedis.Client, nil, helpers.LoadTestConfig(), helpers.TestLogger())

	w := httptest.NewRecorder()
	handler.Readiness(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	testRedis.Server.Close()

	db.EXPECT().Ping(gomock.Any()).Return(nil)
	w = httptest.NewRecorder()
	handler.Readiness(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
