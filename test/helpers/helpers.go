// test/helpers/helpers.go
package helpers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/atelier-ops/internal/adapters/db"
	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	level := slog.LevelError
	if testing.Verbose() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// SetupTestDB starts a PostgreSQL container and applies the embedded migrations
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=atelier_test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := db.DefaultConfig()
	dbConfig.Port = resource.GetPort("5432/tcp")
	dbConfig.User = "test"
	dbConfig.Password = "test"
	dbConfig.Database = "atelier_test"
	dbConfig.MaxConnections = 5
	dbConfig.MinConnections = 1
	dbConfig.EnableQueryLogging = testing.Verbose()

	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")
	t.Cleanup(database.Close)

	err = db.MigrateUp(context.Background(), db.MigrationConfig{
		DatabaseURL: dbConfig.URL(),
	}, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis starts an in-process Redis
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
	})

	return &TestRedis{Client: client, Server: mr}
}

// LoadTestConfig returns a configuration that passes Validate without any environment
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:            "atelier-ops-test",
			Environment:     "test",
			Version:         "test",
			LogLevel:        "debug",
			LogFormat:       "text",
			SecretsProvider: "env",
		},
		Database: config.DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "test",
			Password:       "test",
			Name:           "atelier_test",
			SSLMode:        "disable",
			MaxConnections: 5,
			MinConnections: 1,
		},
		Redis: config.RedisConfig{
			Host:      "localhost",
			Port:      "6379",
			PoolSize:  5,
			KeyPrefix: "atelier-test",
		},
		Asynq: config.AsynqConfig{
			RedisAddr:          "localhost:6379",
			Concurrency:        2,
			Queues:             map[string]int{"critical": 6, "default": 3, "low": 1},
			RetryMax:           1,
			ShutdownTimeout:    time.Second,
			StaleLockSweepCron: "*/15 * * * *",
		},
		AWS: config.AWSConfig{
			Region:   "us-east-1",
			S3Bucket: "delivery-files-test",
		},
		Storage: config.StorageConfig{
			Driver:        config.StorageDriverLocal,
			LocalDir:      os.TempDir(),
			PublicBaseURL: "http://localhost:8080/files",
			MaxUploadMB:   5,
		},
		Sync: config.SyncConfig{
			FunctionURL:         "http://localhost:54321/functions/v1/sync-inventory",
			FunctionToken:       "test-token",
			Timeout:             5 * time.Second,
			RatePerSecond:       100,
			IntelligentSync:     true,
			RecentWindow:        30 * time.Minute,
			StaleLockAge:        time.Hour,
			MaxAutoSyncAttempts: 3,
			LockBackend:         config.LockBackendDB,
			LockTTL:             15 * time.Minute,
			RetryDelay:          time.Minute,
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 1000,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			RequestIDHeader:   "X-Request-ID",
		},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            "8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     10 * time.Second,
			GracefulTimeout: time.Second,
			RequestTimeout:  10 * time.Second,
		},
	}
}

// CreateTestVariant builds a product variant with the given SKU
func CreateTestVariant(sku string) *domain.ProductVariant {
	size, color := "M", "negro"
	return &domain.ProductVariant{
		ID:          uuid.New(),
		ProductName: "Camisa Oxford " + sku,
		Size:        &size,
		Color:       &color,
		SKUVariant:  sku,
	}
}

// CreateTestDelivery builds a pending delivery
func CreateTestDelivery(overrides ...func(*domain.Delivery)) *domain.Delivery {
	d := domain.NewDelivery(uuid.New(), nil, fmt.Sprintf("%04d", time.Now().Nanosecond()%10000), "")
	for _, override := range overrides {
		override(d)
	}
	return d
}

// CreateTestDeliveryItem builds an item of deliveryID whose order item points at a variant with sku.
// An empty sku leaves the variant unresolved.
func CreateTestDeliveryItem(deliveryID uuid.UUID, sku string, overrides ...func(*domain.DeliveryItem)) domain.DeliveryItem {
	orderItem := &domain.OrderItem{
		ID:       uuid.New(),
		OrderID:  uuid.New(),
		Quantity: 20,
	}
	if sku != "" {
		orderItem.Variant = CreateTestVariant(sku)
		orderItem.ProductVariantID = orderItem.Variant.ID
	}

	item := domain.DeliveryItem{
		ID:                uuid.New(),
		DeliveryID:        deliveryID,
		OrderItemID:       orderItem.ID,
		QuantityDelivered: 10,
		QualityStatus:     domain.QualityStatusPending,
		OrderItem:         orderItem,
	}
	for _, override := range overrides {
		override(&item)
	}
	return item
}

// CreateTestSyncLog builds a journal entry for deliveryID at the given time
func CreateTestSyncLog(deliveryID uuid.UUID, at time.Time, results ...domain.SyncItemResult) domain.InventorySyncLog {
	return *domain.NewSyncLog(deliveryID, results, at)
}

// SyncSuccess is a successful per-SKU result
func SyncSuccess(sku string) domain.SyncItemResult {
	return domain.SyncItemResult{SKUVariant: sku, Success: true}
}

// SyncFailure is a failed per-SKU result
func SyncFailure(sku, reason string) domain.SyncItemResult {
	return domain.SyncItemResult{SKUVariant: sku, Success: false, Error: reason}
}

// Upload wraps content as a client upload
func Upload(name, contentType string, content []byte) domain.FileUpload {
	return domain.FileUpload{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(content)),
		Content:     bytes.NewReader(content),
	}
}

// PNGBytes is the signature of a PNG image, enough for content sniffing
var PNGBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// SeededCatalog holds the catalog rows written by SeedCatalog
type SeededCatalog struct {
	Order      *domain.Order
	Workshop   *domain.Workshop
	Variants   []*domain.ProductVariant
	OrderItems []*domain.OrderItem
}

// SeedCatalog writes an order with one order item per sku and a workshop
func SeedCatalog(t *testing.T, catalog ports.CatalogRepository, skus ...string) *SeededCatalog {
	t.Helper()
	ctx := context.Background()

	phone := "3001234567"
	seeded := &SeededCatalog{
		Order:    &domain.Order{OrderNumber: "OP-" + uuid.NewString()[:8]},
		Workshop: &domain.Workshop{Name: "Taller Medellín", Phone: &phone},
	}
	require.NoError(t, catalog.UpsertOrder(ctx, seeded.Order))
	require.NoError(t, catalog.UpsertWorkshop(ctx, seeded.Workshop))

	for _, sku := range skus {
		variant := CreateTestVariant(sku)
		require.NoError(t, catalog.UpsertVariant(ctx, variant))
		item := &domain.OrderItem{OrderID: seeded.Order.ID, ProductVariantID: variant.ID, Quantity: 50}
		require.NoError(t, catalog.UpsertOrderItem(ctx, item))
		seeded.Variants = append(seeded.Variants, variant)
		seeded.OrderItems = append(seeded.OrderItems, item)
	}
	return seeded
}

// AssertEventuallyWithTimeout polls condition until it holds or timeout passes
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, msg)
}

// TruncateAllTables empties every table between tests
func TruncateAllTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE TABLE inventory_sync_logs, delivery_files, delivery_items, deliveries,
			order_items, product_variants, workshops, orders
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Failed to truncate tables")
}

// CreateTempFile writes content to a temp file with the given extension
func CreateTempFile(t *testing.T, content []byte, extension string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "upload-"+uuid.NewString()[:8]+extension)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}
