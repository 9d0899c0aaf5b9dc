// internal/handlers/health.go
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/internal/pkg/config"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"

	healthTimeout    = 5 * time.Second
	readinessTimeout = 3 * time.Second
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db        ports.Database
	redis     redis.UniversalClient
	asynq     *asynq.Inspector
	config    *config.Config
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler. A nil inspector skips the queue check.
func NewHealthHandler(
	database ports.Database,
	redisClient redis.UniversalClient,
	asynqInspector *asynq.Inspector,
	cfg *config.Config,
	logger *slog.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:        database,
		redis:     redisClient,
		asynq:     asynqInspector,
		config:    cfg,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}
}

// HealthStatus is the /health response body
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]ServiceInfo `json:"services"`
	System      SystemInfo             `json:"system"`
}

// ServiceInfo is the outcome of one dependency probe
type ServiceInfo struct {
	Status       string         `json:"status"`
	Message      string         `json:"message,omitempty"`
	ResponseTime string         `json:"response_time,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

// SystemInfo represents system-level information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	MemoryAllocMB uint64 `json:"memory_alloc_mb"`
	NumGC         uint32 `json:"num_gc"`
}

// probe fills details and returns a status, or an error meaning unhealthy.
// An empty status means healthy.
type probe func(ctx context.Context, details map[string]any) (string, string, error)

func (h *HealthHandler) probes() map[string]probe {
	probes := map[string]probe{
		"database": h.probeDatabase,
		"redis":    h.probeRedis,
	}
	if h.asynq != nil {
		probes["asynq"] = h.probeQueues
	}
	// redis locks expire by TTL; only table locks can go stale
	if h.config.Sync.LockBackend != config.LockBackendRedis {
		probes["sync_locks"] = h.probeSyncLocks
	}
	return probes
}

func (h *HealthHandler) run(ctx context.Context, name string, p probe) ServiceInfo {
	start := time.Now()
	details := make(map[string]any)

	status, message, err := p(ctx, details)
	info := ServiceInfo{
		Status:       status,
		Message:      message,
		ResponseTime: time.Since(start).String(),
		Details:      details,
	}
	if info.Status == "" {
		info.Status = statusHealthy
	}
	if err != nil {
		info.Status = statusUnhealthy
		info.Message = err.Error()
		h.logger.ErrorContext(ctx, "health probe failed",
			slog.String("probe", name),
			slog.String("error", err.Error()))
	}
	return info
}

// Health handles GET /health. Probes run concurrently; any probe that is not
// healthy degrades the service and answers 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	health := HealthStatus{
		Status:      statusHealthy,
		Version:     h.config.App.Version,
		Environment: h.config.App.Environment,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now(),
		Services:    make(map[string]ServiceInfo),
		System:      systemInfo(),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for name, p := range h.probes() {
		g.Go(func() error {
			info := h.run(ctx, name, p)
			mu.Lock()
			health.Services[name] = info
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, info := range health.Services {
		if info.Status != statusHealthy {
			health.Status = statusDegraded
		}
	}

	statusCode := http.StatusOK
	if health.Status != statusHealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respondJSON(ctx, h.logger, w, statusCode, health)
}

// Readiness handles GET /ready. Only the database and Redis gate traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	details := map[string]string{"database": "ready", "redis": "ready"}
	ready := true
	if err := h.db.Ping(ctx); err != nil {
		ready = false
		details["database"] = "not ready"
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		ready = false
		details["redis"] = "not ready"
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respondJSON(ctx, h.logger, w, statusCode, map[string]any{
		"ready":   ready,
		"details": details,
	})
}

// probeDatabase pings the pool, then adopts the status the pool reports
// for itself; a slow round trip comes back degraded.
func (h *HealthHandler) probeDatabase(ctx context.Context, details map[string]any) (string, string, error) {
	if err := h.db.Ping(ctx); err != nil {
		return "", "", err
	}
	var status string
	for k, v := range h.db.Health(ctx) {
		if k == "status" {
			status, _ = v.(string)
			continue
		}
		details[k] = v
	}
	return status, "", nil
}

func (h *HealthHandler) probeRedis(ctx context.Context, details map[string]any) (string, string, error) {
	pong, err := h.redis.Ping(ctx).Result()
	if err != nil {
		return "", "", err
	}
	details["ping"] = pong
	if stats := h.redis.PoolStats(); stats != nil {
		details["total_conns"] = stats.TotalConns
		details["idle_conns"] = stats.IdleConns
	}
	return "", "", nil
}

// probeQueues reports backlog per asynq queue. Archived tasks are syncs or
// notifications that ran out of retries.
func (h *HealthHandler) probeQueues(ctx context.Context, details map[string]any) (string, string, error) {
	queues, err := h.asynq.Queues()
	if err != nil {
		return "", "", err
	}

	var archived int
	stats := make(map[string]any, len(queues))
	for _, queue := range queues {
		info, err := h.asynq.GetQueueInfo(queue)
		if err != nil {
			continue
		}
		archived += info.Archived
		stats[queue] = map[string]int{
			"pending":   info.Pending,
			"active":    info.Active,
			"scheduled": info.Scheduled,
			"retry":     info.Retry,
			"archived":  info.Archived,
		}
	}
	details["queues"] = stats
	details["archived_total"] = archived
	return "", "", nil
}

// probeSyncLocks counts delivery sync locks and flags those held past the
// stale age, since they block every sync of their delivery until cleared.
func (h *HealthHandler) probeSyncLocks(ctx context.Context, details map[string]any) (string, string, error) {
	staleAge := h.config.Sync.StaleLockAge
	query := `
		SELECT
			COUNT(*) FILTER (WHERE sync_lock_acquired_at IS NOT NULL),
			COUNT(*) FILTER (WHERE sync_lock_acquired_at < NOW() - make_interval(secs => $1))
		FROM deliveries`

	var held, stale int64
	if err := h.db.QueryRow(ctx, query, staleAge.Seconds()).Scan(&held, &stale); err != nil {
		return "", "", fmt.Errorf("failed to count sync locks: %w", err)
	}

	details["held"] = held
	details["stale"] = stale
	details["stale_after"] = staleAge.String()
	if stale > 0 {
		return statusDegraded, fmt.Sprintf("%d sync lock(s) held longer than %s, run opsctl locks clear-stale", stale, staleAge), nil
	}
	return "", "", nil
}

func systemInfo() SystemInfo {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		MemoryAllocMB: memStats.Alloc / 1024 / 1024,
		NumGC:         memStats.NumGC,
	}
}
