// internal/handlers/routes.go
package handlers

import "net/http"

// APIPrefix is the path prefix of every versioned endpoint
const APIPrefix = "/api/v1"

// Routes groups the HTTP handlers of the service
type Routes struct {
	Delivery  *DeliveryHandler
	Sync      *SyncHandler
	Messaging *MessagingHandler
	Dashboard *DashboardHandler
	Export    *ExportHandler
	Health    *HealthHandler
}

// Register mounts every handler on mux. Nil handlers are skipped.
func (rt Routes) Register(mux *http.ServeMux) {
	if rt.Health != nil {
		mux.HandleFunc("GET /health", rt.Health.Health)
		mux.HandleFunc("GET /ready", rt.Health.Readiness)
	}

	if rt.Delivery != nil {
		mux.HandleFunc("POST "+APIPrefix+"/deliveries", rt.Delivery.CreateDelivery)
		mux.HandleFunc("GET "+APIPrefix+"/deliveries", rt.Delivery.ListDeliveries)
		mux.HandleFunc("GET "+APIPrefix+"/deliveries/{id}", rt.Delivery.GetDelivery)
		mux.HandleFunc("DELETE "+APIPrefix+"/deliveries/{id}", rt.Delivery.DeleteDelivery)
		mux.HandleFunc("PATCH "+APIPrefix+"/deliveries/{id}/quantities", rt.Delivery.UpdateQuantities)
		mux.HandleFunc("POST "+APIPrefix+"/deliveries/{id}/quality-review", rt.Delivery.QualityReview)
	}

	// the literal segment wins over {id}
	if rt.Export != nil {
		mux.HandleFunc("GET "+APIPrefix+"/deliveries/export", rt.Export.ExportDeliveries)
	}

	if rt.Sync != nil {
		mux.HandleFunc("POST "+APIPrefix+"/deliveries/{id}/sync", rt.Sync.SyncDelivery)
		mux.HandleFunc("GET "+APIPrefix+"/deliveries/{id}/sync/recent", rt.Sync.RecentSync)
		mux.HandleFunc("POST "+APIPrefix+"/deliveries/{id}/sync-status", rt.Sync.SkuStatus)
		mux.HandleFunc("GET "+APIPrefix+"/deliveries/{id}/sync-lock", rt.Sync.LockStatus)
		mux.HandleFunc("DELETE "+APIPrefix+"/deliveries/{id}/sync-lock", rt.Sync.ClearLock)
		mux.HandleFunc("POST "+APIPrefix+"/sync-locks/clear-stale", rt.Sync.ClearStaleLocks)
	}

	if rt.Messaging != nil {
		mux.HandleFunc("POST "+APIPrefix+"/messaging/delivery-lookup", rt.Messaging.DeliveryLookup)
	}
	if rt.Dashboard != nil {
		mux.HandleFunc("GET "+APIPrefix+"/dashboard", rt.Dashboard.GetDashboard)
	}
}
