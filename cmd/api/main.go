// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/atelier-ops/internal/adapters/db"
	redis_a "github.com/ammerola/atelier-ops/internal/adapters/redis_adapter"
	"github.com/ammerola/atelier-ops/internal/adapters/storage"
	"github.com/ammerola/atelier-ops/internal/app"
	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/internal/handlers"
	"github.com/ammerola/atelier-ops/internal/handlers/middleware"
	"github.com/ammerola/atelier-ops/internal/pkg/config"
	"github.com/ammerola/atelier-ops/internal/pkg/logger"
	"github.com/ammerola/atelier-ops/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	bootLogger := logger.SetupLogger(&logger.LogConfig{Level: "info", Format: "json", Output: "stdout"})

	bootLogger.Info("starting atelier-ops api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	ctx := context.Background()

	cfg, err := app.LoadConfig(ctx, bootLogger.Logger)
	if err != nil {
		bootLogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.App.Version == "dev" {
		cfg.App.Version = Version
	}

	log := app.NewLogger(cfg, "api")
	log.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("lock_backend", cfg.Sync.LockBackend),
	)

	if cfg.App.AutoMigrate {
		if err := app.RunMigrations(ctx, cfg, log.Logger); err != nil {
			log.Error("failed to run migrations", slog.String("error", err.Error()))
			if cfg.IsProduction() {
				os.Exit(1)
			}
		}
	}

	deps, err := initializeDependencies(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	server := setupHTTPServer(cfg, deps, log)

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", slog.String("address", cfg.GetServerAddress()))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		log.Info("server shutdown complete")
	}
}

// dependencies holds everything the HTTP layer needs
type dependencies struct {
	database       *db.Database
	redisClient    *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	blob           ports.BlobStorage

	deliveryHandler  *handlers.DeliveryHandler
	syncHandler      *handlers.SyncHandler
	messagingHandler *handlers.MessagingHandler
	dashboardHandler *handlers.DashboardHandler
	exportHandler    *handlers.ExportHandler
	healthHandler    *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.database != nil {
		d.database.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, log *logger.Logger) (*dependencies, error) {
	deps := &dependencies{}
	slogger := log.Logger

	database, err := app.OpenDatabase(ctx, cfg, 0, slogger)
	if err != nil {
		return nil, err
	}
	deps.database = database

	redisClient, err := app.OpenRedis(ctx, cfg, slogger)
	if err != nil {
		deps.cleanup()
		return nil, err
	}
	deps.redisClient = redisClient

	asynqOpt := app.AsynqRedis(cfg)
	deps.asynqClient = asynq.NewClient(asynqOpt)
	deps.asynqInspector = asynq.NewInspector(asynqOpt)

	blob, err := app.NewBlobStorage(ctx, cfg, slogger)
	if err != nil {
		deps.cleanup()
		return nil, err
	}
	deps.blob = blob

	lock, err := app.NewSyncLock(cfg, database, redisClient, slogger)
	if err != nil {
		deps.cleanup()
		return nil, err
	}

	repos := app.NewRepositories(database, slogger)
	svc := app.NewServices(cfg, app.ServiceDeps{
		Repos: repos,
		Lock:  lock,
		Blob:  blob,
		Tasks: workers.NewTaskQueue(deps.asynqClient, cfg.Asynq.RetryMax, slogger),
	}, slogger)

	cache := redis_a.NewCache(redisClient, cfg.Redis.KeyPrefix, slogger)

	deps.deliveryHandler = handlers.NewDeliveryHandler(svc.Delivery, cfg.Storage.MaxUploadMB, slogger)
	deps.syncHandler = handlers.NewSyncHandler(svc.Sync, slogger)
	deps.messagingHandler = handlers.NewMessagingHandler(svc.Messaging, slogger)
	deps.dashboardHandler = handlers.NewDashboardHandler(database, repos.Deliveries, cache, slogger)
	deps.exportHandler = handlers.NewExportHandler(svc.Delivery, slogger)
	deps.healthHandler = handlers.NewHealthHandler(database, redisClient, deps.asynqInspector, cfg, slogger)

	slogger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, log *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	registerRoutes(mux, deps, cfg, log.Logger)

	chain := []middleware.Middleware{
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Actor,
		middleware.Logger(log),
		middleware.Recovery(log.Logger),
	}
	if cfg.Security.SecureHeaders {
		chain = append(chain, middleware.SecureHeaders)
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		chain = append(chain, middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if cfg.Security.RateLimitRequests > 0 {
		chain = append(chain, middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration))
	}
	if cfg.Server.RequestTimeout > 0 {
		chain = append(chain, middleware.Timeout(cfg.Server.RequestTimeout))
	}

	return &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           middleware.Chain(mux, chain...),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config, log *slog.Logger) {
	handlers.Routes{
		Delivery:  deps.deliveryHandler,
		Sync:      deps.syncHandler,
		Messaging: deps.messagingHandler,
		Dashboard: deps.dashboardHandler,
		Export:    deps.exportHandler,
		Health:    deps.healthHandler,
	}.Register(mux)

	// Files written by the local driver are served from the public base URL path
	if local, ok := deps.blob.(*storage.LocalStorage); ok {
		prefix := localFilesPrefix(cfg.Storage.PublicBaseURL)
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(local.Dir()))))
		log.Info("serving local files", slog.String("prefix", prefix), slog.String("dir", local.Dir()))
	}
}

func localFilesPrefix(publicBaseURL string) string {
	prefix := "/files"
	if u, err := url.Parse(publicBaseURL); err == nil && u.Path != "" && u.Path != "/" {
		prefix = u.Path
	}
	return fmt.Sprintf("/%s/", strings.Trim(prefix, "/"))
}
