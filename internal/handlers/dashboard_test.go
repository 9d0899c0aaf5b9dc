// internal/handlers/dashboard_test.go
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

	redis_a "github.com/ammerola/atelier-ops/internal/adapters/redis_adapter"
	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/handlers"
	"github.com/ammerola/atelier-ops/test/helpers"
	"github.com/ammerola/atelier-ops/test/mocks"
)

// fakeRow scans fixed int64 values
type fakeRow struct {
	values []int64
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		*(d.(*int64)) = r.values[i]
	}
	return nil
}

func TestDashboardHandler_GetDashboard(t *testing.T) {
	counts := map[domain.DeliveryStatus]int64{
		domain.DeliveryStatusPending:         4,
		domain.DeliveryStatusApproved:        3,
		domain.DeliveryStatusPartialApproved: 2,
	}

	t.Run("loads_once_then_serves_from_cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		database := mocks.NewMockDatabase(ctrl)
		deliveries := mocks.NewMockDeliveryRepository(ctrl)
		testRedis := helpers.SetupTestRedis(t)
		cache := redis_a.NewCache(testRedis.Client, "", helpers.TestLogger())

		deliveries.EXPECT().StatusCounts(gomock.Any()).Return(counts, nil).Times(1)
		database.EXPECT().QueryRow(gomock.Any(), gomock.Any()).Return(fakeRow{values: []int64{5, 1, 7}}).Times(1)

		handler := handlers.NewDashboardHandler(database, deliveries, cache, helpers.TestLogger())

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			handler.GetDashboard(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

			require.Equal(t, http.StatusOK, w.Code)
			var data handlers.DashboardData
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
			assert.Equal(t, int64(9), data.Total)
			assert.Equal(t, int64(3), data.ByStatus[domain.DeliveryStatusApproved])
			assert.Equal(t, int64(5), data.PendingSync)
			assert.Equal(t, int64(1), data.Locked)
			assert.Equal(t, int64(7), data.FailedSyncItems)
		}

		assert.True(t, testRedis.Server.Exists(redis_a.BuildKey(redis_a.PrefixDashboard, "summary")))
	})

	t.Run("summary_query_failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		database := mocks.NewMockDatabase(ctrl)
		deliveries := mocks.NewMockDeliveryRepository(ctrl)
		testRedis := helpers.SetupTestRedis(t)
		cache := redis_a.NewCache(testRedis.Client, "", helpers.TestLogger())

		deliveries.EXPECT().StatusCounts(gomock.Any()).Return(counts, nil)
		database.EXPECT().QueryRow(gomock.Any(), gomock.Any()).Return(fakeRow{err: errors.New("connection reset")})

		handler := handlers.NewDashboardHandler(database, deliveries, cache, helpers.TestLogger())

		w := httptest.NewRecorder()
		handler.GetDashboard(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to load dashboard", decodeError(t, w.Body.Bytes()).Error)
		assert.False(t, testRedis.Server.Exists(redis_a.BuildKey(redis_a.PrefixDashboard, "summary")))
	})

	t.Run("refresh_reloads_summary", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		database := mocks.NewMockDatabase(ctrl)
		deliveries := mocks.NewMockDeliveryRepository(ctrl)
		testRedis := helpers.SetupTestRedis(t)
		cache := redis_a.NewCache(testRedis.Client, "", helpers.TestLogger())

		deliveries.EXPECT().StatusCounts(gomock.Any()).Return(counts, nil).Times(2)
		gomock.InOrder(
			database.EXPECT().QueryRow(gomock.Any(), gomock.Any()).Return(fakeRow{values: []int64{5, 1, 7}}),
			database.EXPECT().QueryRow(gomock.Any(), gomock.Any()).Return(fakeRow{values: []int64{0, 0, 0}}),
		)

		handler := handlers.NewDashboardHandler(database, deliveries, cache, helpers.TestLogger())

		for _, target := range []string{"/api/v1/dashboard", "/api/v1/dashboard", "/api/v1/dashboard?refresh=true"} {
			w := httptest.NewRecorder()
			handler.GetDashboard(w, httptest.NewRequest(http.MethodGet, target, nil))
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.NewRecorder()
		handler.GetDashboard(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
		var data handlers.DashboardData
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
		assert.Equal(t, int64(0), data.PendingSync)
	})
}
