// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/atelier-ops/internal/adapters/db"
	redis_a "github.com/ammerola/atelier-ops/internal/adapters/redis_adapter"
	"github.com/ammerola/atelier-ops/internal/adapters/shopify"
	"github.com/ammerola/atelier-ops/internal/adapters/storage"
	"github.com/ammerola/atelier-ops/internal/adapters/whatsapp"
	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/internal/core/services"
	"github.com/ammerola/atelier-ops/internal/pkg/config"
	"github.com/ammerola/atelier-ops/internal/pkg/logger"
)

// LoadConfig reads the configuration and overlays secrets from the configured provider
func LoadConfig(ctx context.Context, log *slog.Logger) (*config.Config, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	provider, err := config.NewSecretsProvider(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create secrets provider: %w", err)
	}
	if err := config.LoadSecrets(ctx, cfg, provider); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewLogger builds the process logger for component
func NewLogger(cfg *config.Config, component string) *logger.Logger {
	return logger.SetupLogger(&logger.LogConfig{
		Level:          cfg.App.LogLevel,
		Format:         cfg.App.LogFormat,
		Output:         "stdout",
		Environment:    cfg.App.Environment,
		ServiceName:    cfg.App.Name + "-" + component,
		ServiceVersion: cfg.App.Version,
	})
}

// OpenDatabase connects the pgx pool
func OpenDatabase(ctx context.Context, cfg *config.Config, maxConns int32, log *slog.Logger) (*db.Database, error) {
	if maxConns <= 0 {
		maxConns = cfg.Database.MaxConnections
	}

	log.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name))

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     maxConns,
		MinConnections:     min(cfg.Database.MinConnections, maxConns),
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database, nil
}

// RunMigrations applies pending schema migrations
func RunMigrations(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Info("running database migrations")
	return db.MigrateUp(ctx, MigrationConfig(cfg), log, 3)
}

// MigrationConfig derives the migrator settings from cfg
func MigrationConfig(cfg *config.Config) db.MigrationConfig {
	return db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}
}

// OpenRedis connects the cache Redis and checks it answers
func OpenRedis(ctx context.Context, cfg *config.Config, log *slog.Logger) (*redis.Client, error) {
	log.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port))

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// AsynqRedis is the connection used by the asynq client, server and scheduler
func AsynqRedis(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
}

// NewSyncLock picks the sync lock backend. The redis backend needs client.
func NewSyncLock(cfg *config.Config, database *db.Database, client redis.UniversalClient, log *slog.Logger) (ports.SyncLock, error) {
	switch cfg.Sync.LockBackend {
	case "", config.LockBackendDB:
		return db.NewSyncLock(database, cfg.Sync.LockTTL, log), nil
	case config.LockBackendRedis:
		if client == nil {
			return nil, fmt.Errorf("sync lock backend %q needs a Redis client", cfg.Sync.LockBackend)
		}
		return redis_a.NewSyncLock(client, cfg.Redis.KeyPrefix, cfg.Sync.LockTTL, log), nil
	default:
		return nil, fmt.Errorf("unknown sync lock backend %q", cfg.Sync.LockBackend)
	}
}

// Repositories groups the Postgres repositories
type Repositories struct {
	Deliveries ports.DeliveryRepository
	Catalog    ports.CatalogRepository
	Files      ports.DeliveryFileRepository
	SyncLogs   ports.SyncLogRepository
}

// NewRepositories builds every repository on database
func NewRepositories(database *db.Database, log *slog.Logger) *Repositories {
	return &Repositories{
		Deliveries: db.NewDeliveryRepository(database, log),
		Catalog:    db.NewCatalogRepository(database, log),
		Files:      db.NewDeliveryFileRepository(database, log),
		SyncLogs:   db.NewSyncLogRepository(database, log),
	}
}

// Services groups the application services
type Services struct {
	Delivery  *services.DeliveryService
	Sync      *services.InventorySyncService
	Evidence  *services.EvidenceService
	Messaging *services.MessagingService
}

// ServiceDeps are the collaborators needed to build the services
type ServiceDeps struct {
	Repos *Repositories
	Lock  ports.SyncLock
	Blob  ports.BlobStorage
	// Tasks may be nil; background follow-ups are then skipped
	Tasks ports.TaskQueue
}

// NewSyncService builds the inventory sync coordinator and its store client
func NewSyncService(cfg *config.Config, repos *Repositories, lock ports.SyncLock, log *slog.Logger) *services.InventorySyncService {
	pusher := shopify.NewInventorySyncClient(shopify.Config{
		FunctionURL:   cfg.Sync.FunctionURL,
		Token:         cfg.Sync.FunctionToken,
		Timeout:       cfg.Sync.Timeout,
		RatePerSecond: cfg.Sync.RatePerSecond,
	}, log)

	return services.NewInventorySyncService(
		repos.Deliveries,
		repos.SyncLogs,
		lock,
		pusher,
		services.SyncConfig{
			RecentWindow:        cfg.Sync.RecentWindow,
			StaleLockAge:        cfg.Sync.StaleLockAge,
			MaxAutoSyncAttempts: cfg.Sync.MaxAutoSyncAttempts,
			IntelligentSync:     cfg.Sync.IntelligentSync,
		},
		log,
	)
}

// NewServices builds the application services with their external clients
func NewServices(cfg *config.Config, deps ServiceDeps, log *slog.Logger) *Services {
	var sender ports.MessageSender
	if cfg.WhatsApp.Enabled {
		sender = whatsapp.NewClient(whatsapp.Config{
			Enabled:       true,
			APIBaseURL:    cfg.WhatsApp.APIBaseURL,
			PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
			Token:         cfg.WhatsApp.Token,
			Timeout:       cfg.WhatsApp.Timeout,
		}, log)
	}

	syncService := NewSyncService(cfg, deps.Repos, deps.Lock, log)

	evidence := services.NewEvidenceService(deps.Blob, deps.Repos.Files, log)

	svc := &Services{
		Sync:      syncService,
		Evidence:  evidence,
		Messaging: services.NewMessagingService(deps.Repos.Deliveries, deps.Repos.Catalog, sender, log),
	}

	svc.Delivery = services.NewDeliveryService(
		deps.Repos.Deliveries,
		deps.Repos.Catalog,
		evidence,
		syncService,
		deps.Tasks,
		services.DeliveryConfig{
			SyncRetryDelay:  cfg.Sync.RetryDelay,
			NotifyWorkshops: cfg.WhatsApp.Enabled,
		},
		log,
	)
	return svc
}

// NewBlobStorage builds the configured blob store
func NewBlobStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (ports.BlobStorage, error) {
	blob, err := storage.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return blob, nil
}
