//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	redis_a "github.com/ammerola/atelier-ops/internal/adapters/redis_adapter"
	"github.com/ammerola/atelier-ops/internal/app"
	"github.com/ammerola/atelier-ops/internal/handlers"
	"github.com/ammerola/atelier-ops/internal/handlers/middleware"
	"github.com/ammerola/atelier-ops/test/helpers"
)

// fakeSyncFunction stands in for the remote inventory-sync function and
// accepts every approved item.
type fakeSyncFunction struct {
	calls atomic.Int32
	mu    sync.Mutex
	skus  []string
}

func (f *fakeSyncFunction) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)

	var req struct {
		DeliveryID    string `json:"deliveryId"`
		ApprovedItems []struct {
			VariantID        string `json:"variantId"`
			SKUVariant       string `json:"skuVariant"`
			QuantityApproved int    `json:"quantityApproved"`
		} `json:"approvedItems"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	results := make([]map[string]interface{}, 0, len(req.ApprovedItems))
	f.mu.Lock()
	for _, item := range req.ApprovedItems {
		f.skus = append(f.skus, item.SKUVariant)
		results = append(results, map[string]interface{}{
			"skuVariant":       item.SKUVariant,
			"variantId":        item.VariantID,
			"quantityApproved": item.QuantityApproved,
			"success":          true,
		})
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"summary": map[string]int{"successful": len(results)},
		"results": results,
	})
}

type DeliveryE2ESuite struct {
	suite.Suite
	server    *httptest.Server
	syncFn    *fakeSyncFunction
	syncSrv   *httptest.Server
	client    *http.Client
	baseURL   string
	testDB    *helpers.TestDB
	testRedis *helpers.TestRedis
	app       *app.Services
	repos     *app.Repositories
}

func (s *DeliveryE2ESuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.testRedis = helpers.SetupTestRedis(s.T())

	s.syncFn = &fakeSyncFunction{}
	s.syncSrv = httptest.NewServer(s.syncFn)

	s.server = s.startTestServer()
	s.client = &http.Client{Timeout: 10 * time.Second}
	s.baseURL = s.server.URL + handlers.APIPrefix
}

func (s *DeliveryE2ESuite) TearDownSuite() {
	s.server.Close()
	s.syncSrv.Close()
}

func (s *DeliveryE2ESuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
	s.Require().NoError(s.testRedis.Client.FlushAll(context.Background()).Err())
}

func (s *DeliveryE2ESuite) TestCompleteDeliveryWorkflow() {
	seeded := helpers.SeedCatalog(s.T(), s.repos.Catalog, "CAM-OX-M", "CAM-OX-L")

	// 1. Register the delivery with its invoice
	payload := map[string]interface{}{
		"order_id":    seeded.Order.ID,
		"workshop_id": seeded.Workshop.ID,
		"items": []map[string]interface{}{
			{"order_item_id": seeded.OrderItems[0].ID, "quantity_delivered": 10},
			{"order_item_id": seeded.OrderItems[1].ID, "quantity_delivered": 5},
		},
		"notes": "entrega parcial",
	}
	resp := s.multipart(http.MethodPost, "/deliveries", payload, "files", "factura.png", "image/png", helpers.PNGBytes)
	s.Equal(http.StatusCreated, resp.StatusCode)

	var created struct {
		Delivery struct {
			ID             string `json:"id"`
			TrackingNumber string `json:"tracking_number"`
			Status         string `json:"status"`
			Items          []struct {
				ID string `json:"id"`
			} `json:"items"`
		} `json:"delivery"`
		Files struct {
			Uploaded int `json:"uploaded"`
		} `json:"files"`
	}
	s.decodeResponse(resp, &created)
	s.Require().NotEmpty(created.Delivery.ID)
	s.Require().Len(created.Delivery.Items, 2)
	s.Equal("pending", created.Delivery.Status)
	s.Equal(1, created.Files.Uploaded)

	deliveryID := created.Delivery.ID

	// 2. Correct a quantity while still pending
	resp = s.makeRequest(http.MethodPatch, "/deliveries/"+deliveryID+"/quantities", map[string]interface{}{
		"updates": []map[string]interface{}{
			{"item_id": created.Delivery.Items[1].ID, "quantity_delivered": 6},
		},
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// 3. Review: everything approved on the first item, partial on the second
	review := map[string]interface{}{
		"variants": map[string]interface{}{
			created.Delivery.Items[0].ID: map[string]interface{}{"approved": 10, "defective": 0},
			created.Delivery.Items[1].ID: map[string]interface{}{"approved": 4, "defective": 2, "reason": "costura abierta"},
		},
		"general_notes": "revisado en bodega",
	}
	resp = s.multipart(http.MethodPost, "/deliveries/"+deliveryID+"/quality-review", review, "evidence", "foto.png", "image/png", helpers.PNGBytes)
	s.Equal(http.StatusOK, resp.StatusCode)

	var reviewed struct {
		Success bool   `json:"success"`
		Status  string `json:"status"`
		Outcome string `json:"outcome"`
	}
	s.decodeResponse(resp, &reviewed)
	s.True(reviewed.Success)
	s.Equal("partial_approved", reviewed.Status)
	s.Equal("completed", reviewed.Outcome)
	s.EqualValues(1, s.syncFn.calls.Load())

	// 4. Quantities are frozen after the review
	resp = s.makeRequest(http.MethodPatch, "/deliveries/"+deliveryID+"/quantities", map[string]interface{}{
		"updates": []map[string]interface{}{
			{"item_id": created.Delivery.Items[0].ID, "quantity_delivered": 12},
		},
	})
	s.Equal(http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// 5. The journal reports both SKUs as synced
	resp = s.makeRequest(http.MethodPost, "/deliveries/"+deliveryID+"/sync-status", map[string]interface{}{
		"skus": []string{"CAM-OX-M", "CAM-OX-L", "CAM-OX-XL"},
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	var statuses []struct {
		SKU      string `json:"sku"`
		IsSynced bool   `json:"is_synced"`
	}
	s.decodeResponse(resp, &statuses)
	s.Require().Len(statuses, 3)
	s.True(statuses[0].IsSynced)
	s.True(statuses[1].IsSynced)
	s.False(statuses[2].IsSynced)

	// 6. A forced re-sync right after a success needs an override
	resp = s.makeRequest(http.MethodPost, "/deliveries/"+deliveryID+"/sync?force=true", nil)
	s.Equal(http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// 7. Pending-only sync has nothing left to push
	resp = s.makeRequest(http.MethodPost, "/deliveries/"+deliveryID+"/sync", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	s.EqualValues(1, s.syncFn.calls.Load())

	// 8. The lock was released
	resp = s.makeRequest(http.MethodGet, "/deliveries/"+deliveryID+"/sync-lock", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var lock map[string]interface{}
	s.decodeResponse(resp, &lock)
	s.Equal(false, lock["is_locked"])

	// 9. Workshops can ask for the delivery by code
	resp = s.makeRequest(http.MethodPost, "/messaging/delivery-lookup", map[string]interface{}{
		"from": "+57 300 123 4567",
		"text": "Hola, código " + created.Delivery.TrackingNumber,
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	var lookup map[string]interface{}
	s.decodeResponse(resp, &lookup)
	s.Equal(deliveryID, lookup["delivery_id"])

	// 10. Dashboard and export see the delivery
	resp = s.makeRequest(http.MethodGet, "/dashboard", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var dashboard map[string]interface{}
	s.decodeResponse(resp, &dashboard)
	s.EqualValues(1, dashboard["total"])

	resp = s.makeRequest(http.MethodGet, "/deliveries/export", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	resp.Body.Close()

	// 11. Delete and confirm it is gone
	resp = s.makeRequest(http.MethodDelete, "/deliveries/"+deliveryID, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.makeRequest(http.MethodGet, "/deliveries/"+deliveryID, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *DeliveryE2ESuite) TestCreateDeliveryRejectsUnknownOrder() {
	payload := map[string]interface{}{
		"order_id": "7f1d3c1e-5d2a-4d8e-9f3b-2c6a1b0e9d44",
		"items": []map[string]interface{}{
			{"order_item_id": "0b8f7a9e-2f4c-4c1d-8a6e-3d5b9c7e1f20", "quantity_delivered": 1},
		},
	}
	resp := s.multipart(http.MethodPost, "/deliveries", payload, "", "", "", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *DeliveryE2ESuite) TestConcurrentCreations() {
	seeded := helpers.SeedCatalog(s.T(), s.repos.Catalog, "BLU-S")

	const n = 10
	var wg sync.WaitGroup
	codes := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload := map[string]interface{}{
				"order_id": seeded.Order.ID,
				"items": []map[string]interface{}{
					{"order_item_id": seeded.OrderItems[0].ID, "quantity_delivered": 1},
				},
			}
			resp := s.multipart(http.MethodPost, "/deliveries", payload, "", "", "", nil)
			resp.Body.Close()
			codes <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		s.Equal(http.StatusCreated, code)
	}

	resp := s.makeRequest(http.MethodGet, "/deliveries?limit=50", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var list struct {
		TotalCount int64 `json:"total_count"`
	}
	s.decodeResponse(resp, &list)
	s.Equal(int64(n), list.TotalCount)
}

func (s *DeliveryE2ESuite) TestHealthCheck() {
	resp, err := s.client.Get(s.server.URL + "/health")
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)

	var health map[string]interface{}
	s.decodeResponse(resp, &health)
	s.Equal("healthy", health["status"])

	services := health["services"].(map[string]interface{})
	s.Contains(services, "database")
	s.Contains(services, "redis")
}

// Helper methods

func (s *DeliveryE2ESuite) startTestServer() *httptest.Server {
	ctx := context.Background()
	log := helpers.TestLogger()

	cfg := helpers.LoadTestConfig()
	cfg.Sync.FunctionURL = s.syncSrv.URL
	cfg.Storage.LocalDir = s.T().TempDir()

	blob, err := app.NewBlobStorage(ctx, cfg, log)
	s.Require().NoError(err)

	lock, err := app.NewSyncLock(cfg, s.testDB.Database, s.testRedis.Client, log)
	s.Require().NoError(err)

	s.repos = app.NewRepositories(s.testDB.Database, log)
	s.app = app.NewServices(cfg, app.ServiceDeps{Repos: s.repos, Lock: lock, Blob: blob}, log)

	cache := redis_a.NewCache(s.testRedis.Client, cfg.Redis.KeyPrefix, log)

	mux := http.NewServeMux()
	handlers.Routes{
		Delivery:  handlers.NewDeliveryHandler(s.app.Delivery, cfg.Storage.MaxUploadMB, log),
		Sync:      handlers.NewSyncHandler(s.app.Sync, log),
		Messaging: handlers.NewMessagingHandler(s.app.Messaging, log),
		Dashboard: handlers.NewDashboardHandler(s.testDB.Database, s.repos.Deliveries, cache, log),
		Export:    handlers.NewExportHandler(s.app.Delivery, log),
		Health:    handlers.NewHealthHandler(s.testDB.Database, s.testRedis.Client, nil, cfg, log),
	}.Register(mux)

	return httptest.NewServer(middleware.Chain(mux,
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Actor,
		middleware.Recovery(log),
	))
}

func (s *DeliveryE2ESuite) makeRequest(method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reqBody)
	s.Require().NoError(err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.ActorHeader, "e2e@atelier.test")

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	return resp
}

// multipart posts payload as the JSON field and, when field is set, one file
func (s *DeliveryE2ESuite) multipart(method, path string, payload interface{}, field, name, contentType string, content []byte) *http.Response {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	data, err := json.Marshal(payload)
	s.Require().NoError(err)
	s.Require().NoError(mw.WriteField("payload", string(data)))

	if field != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name))
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		s.Require().NoError(err)
		_, err = part.Write(content)
		s.Require().NoError(err)
	}
	s.Require().NoError(mw.Close())

	req, err := http.NewRequest(method, s.baseURL+path, &body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.ActorHeader, "e2e@atelier.test")

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *DeliveryE2ESuite) decodeResponse(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func TestDeliveryE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(DeliveryE2ESuite))
}
