// internal/pkg/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Asynq    AsynqConfig
	AWS      AWSConfig
	Storage  StorageConfig
	Sync     SyncConfig
	WhatsApp WhatsAppConfig
	Security SecurityConfig
	Server   ServerConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text, pretty
	Debug       bool
	AutoMigrate bool
	// SecretsProvider is env or aws
	SecretsProvider string
	SecretsName     string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	StatementCacheMode string
	EnableQueryLogging bool
	// MigrationPath overrides the embedded migrations when set
	MigrationPath string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	KeyPrefix    string
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Concurrency     int
	Queues          map[string]int // queue name -> priority
	StrictPriority  bool
	RetryMax        int
	ShutdownTimeout time.Duration
	// StaleLockSweepCron schedules the stale sync lock sweep
	StaleLockSweepCron string
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string // For MinIO in development
	UsePathStyle    bool   // For MinIO compatibility
}

// StorageConfig selects where delivery files are stored
type StorageConfig struct {
	Driver        string // s3, local
	LocalDir      string
	PublicBaseURL string
	MaxUploadMB   int
}

// SyncConfig holds settings of the inventory sync with the e-commerce platform
type SyncConfig struct {
	FunctionURL         string
	FunctionToken       string
	Timeout             time.Duration
	RatePerSecond       float64
	IntelligentSync     bool
	RecentWindow        time.Duration
	StaleLockAge        time.Duration
	MaxAutoSyncAttempts int
	LockBackend         string // db, redis
	LockTTL             time.Duration
	RetryDelay          time.Duration
}

// WhatsAppConfig holds WhatsApp Business API settings
type WhatsAppConfig struct {
	Enabled       bool
	APIBaseURL    string
	PhoneNumberID string
	Token         string
	Timeout       time.Duration
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	SecureHeaders     bool
	RequestIDHeader   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	GracefulTimeout time.Duration
	RequestTimeout  time.Duration
}

// Load loads configuration from environment variables
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file in development
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults()

	redisHost := getEnv("REDIS_HOST", "localhost")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "atelier-ops"),
			Environment:     env,
			Version:         getEnv("APP_VERSION", "dev"),
			LogLevel:        getEnv("LOG_LEVEL", "debug"),
			LogFormat:       getEnv("LOG_FORMAT", "json"),
			Debug:           getBoolEnv("APP_DEBUG", env == "development"),
			AutoMigrate:     getBoolEnv("AUTO_MIGRATE", env == "development"),
			SecretsProvider: getEnv("SECRETS_PROVIDER", "env"),
			SecretsName:     getEnv("SECRETS_NAME", "atelier-ops/"+env),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", "atelier"),
			Password:           getEnv("DB_PASSWORD", "atelier_dev"),
			Name:               getEnv("DB_NAME", "atelier_ops"),
			SSLMode:            getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:     int32(getIntEnv("DB_MAX_CONNECTIONS", 15)),
			MinConnections:     int32(getIntEnv("DB_MIN_CONNECTIONS", 2)),
			MaxConnLifetime:    getDurationEnv("DB_CONNECTION_LIFETIME", time.Hour),
			MaxConnIdleTime:    getDurationEnv("DB_IDLE_TIME", 30*time.Minute),
			HealthCheckPeriod:  getDurationEnv("DB_HEALTH_CHECK_PERIOD", time.Minute),
			ConnectTimeout:     getDurationEnv("DB_CONNECT_TIMEOUT", 10*time.Second),
			StatementCacheMode: getEnv("DB_STATEMENT_CACHE_MODE", "describe"),
			EnableQueryLogging: getBoolEnv("DB_QUERY_LOGGING", false),
			MigrationPath:      getEnv("DB_MIGRATION_PATH", ""),
		},
		Redis: RedisConfig{
			Host:         redisHost,
			Port:         redisPort,
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			MaxRetries:   getIntEnv("REDIS_MAX_RETRIES", 3),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			KeyPrefix:    getEnv("REDIS_KEY_PREFIX", "atelier"),
		},
		Asynq: AsynqConfig{
			RedisAddr:          fmt.Sprintf("%s:%s", redisHost, redisPort),
			RedisPassword:      getEnv("REDIS_PASSWORD", ""),
			RedisDB:            getIntEnv("ASYNQ_REDIS_DB", 1),
			Concurrency:        getIntEnv("ASYNQ_CONCURRENCY", 5),
			Queues:             parseQueues(getEnv("ASYNQ_QUEUES", "critical:6,default:3,low:1")),
			StrictPriority:     getBoolEnv("ASYNQ_STRICT_PRIORITY", false),
			RetryMax:           getIntEnv("ASYNQ_RETRY_MAX", 3),
			ShutdownTimeout:    getDurationEnv("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second),
			StaleLockSweepCron: getEnv("STALE_LOCK_SWEEP_CRON", "*/15 * * * *"),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "delivery-files"),
			S3Endpoint:      getEnv("AWS_S3_ENDPOINT", ""),
			UsePathStyle:    getBoolEnv("AWS_S3_PATH_STYLE", env == "development"),
		},
		Storage: StorageConfig{
			Driver:        getEnv("STORAGE_DRIVER", "local"),
			LocalDir:      getEnv("STORAGE_LOCAL_DIR", "./data/delivery-files"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/files"),
			MaxUploadMB:   getIntEnv("STORAGE_MAX_UPLOAD_MB", 25),
		},
		Sync: SyncConfig{
			FunctionURL:         getEnv("SYNC_FUNCTION_URL", "http://localhost:54321/functions/v1/sync-inventory"),
			FunctionToken:       getEnv("SYNC_FUNCTION_TOKEN", ""),
			Timeout:             getDurationEnv("SYNC_TIMEOUT", 60*time.Second),
			RatePerSecond:       getFloatEnv("SYNC_RATE_PER_SECOND", 2),
			IntelligentSync:     getBoolEnv("SYNC_INTELLIGENT", true),
			RecentWindow:        getDurationEnv("SYNC_RECENT_WINDOW", 30*time.Minute),
			StaleLockAge:        getDurationEnv("SYNC_STALE_LOCK_AGE", time.Hour),
			MaxAutoSyncAttempts: getIntEnv("SYNC_MAX_AUTO_ATTEMPTS", 3),
			LockBackend:         getEnv("SYNC_LOCK_BACKEND", "db"),
			LockTTL:             getDurationEnv("SYNC_LOCK_TTL", 15*time.Minute),
			RetryDelay:          getDurationEnv("SYNC_RETRY_DELAY", 5*time.Minute),
		},
		WhatsApp: WhatsAppConfig{
			Enabled:       getBoolEnv("WHATSAPP_ENABLED", false),
			APIBaseURL:    getEnv("WHATSAPP_API_BASE_URL", "https://graph.facebook.com/v19.0"),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			Token:         getEnv("WHATSAPP_TOKEN", ""),
			Timeout:       getDurationEnv("WHATSAPP_TIMEOUT", 15*time.Second),
		},
		Security: SecurityConfig{
			RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 100),
			RateLimitDuration: getDurationEnv("RATE_LIMIT_DURATION", time.Minute),
			AllowedOrigins:    getSliceEnv("ALLOWED_ORIGINS", []string{"*"}),
			SecureHeaders:     getBoolEnv("SECURE_HEADERS", env == "production"),
			RequestIDHeader:   getEnv("REQUEST_ID_HEADER", "X-Request-ID"),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 90*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
			MaxHeaderBytes:  getIntEnv("SERVER_MAX_HEADER_BYTES", 1<<20),
			GracefulTimeout: getDurationEnv("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
			RequestTimeout:  getDurationEnv("SERVER_REQUEST_TIMEOUT", 75*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("%w: database host", ErrMissingRequiredConfig)
	}
	if c.Database.Name == "" {
		return fmt.Errorf("%w: database name", ErrMissingRequiredConfig)
	}
	if err := ValidatePort(c.Server.Port); err != nil {
		return fmt.Errorf("server port: %w", err)
	}
	if c.Database.MaxConnections < c.Database.MinConnections {
		return fmt.Errorf("max connections must be >= min connections")
	}
	if c.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate limit requests must be positive")
	}

	if err := ValidateOneOf("STORAGE_DRIVER", c.Storage.Driver, StorageDriverS3, StorageDriverLocal); err != nil {
		return err
	}
	if c.Storage.Driver == StorageDriverS3 && c.AWS.S3Bucket == "" {
		return fmt.Errorf("%w: AWS_S3_BUCKET", ErrMissingRequiredConfig)
	}
	if c.Storage.MaxUploadMB <= 0 {
		return fmt.Errorf("storage max upload must be positive")
	}

	if err := ValidateOneOf("SYNC_LOCK_BACKEND", c.Sync.LockBackend, LockBackendDB, LockBackendRedis); err != nil {
		return err
	}
	if err := ValidateURL("SYNC_FUNCTION_URL", c.Sync.FunctionURL); err != nil {
		return err
	}
	for name, d := range map[string]time.Duration{
		"SYNC_TIMEOUT":        c.Sync.Timeout,
		"SYNC_RECENT_WINDOW":  c.Sync.RecentWindow,
		"SYNC_STALE_LOCK_AGE": c.Sync.StaleLockAge,
		"SYNC_LOCK_TTL":       c.Sync.LockTTL,
	} {
		if err := ValidatePositiveDuration(name, d); err != nil {
			return err
		}
	}
	if c.Sync.RatePerSecond <= 0 {
		return fmt.Errorf("sync rate per second must be positive")
	}

	if c.WhatsApp.Enabled {
		if err := ValidateURL("WHATSAPP_API_BASE_URL", c.WhatsApp.APIBaseURL); err != nil {
			return err
		}
		if c.WhatsApp.PhoneNumberID == "" {
			return fmt.Errorf("%w: WHATSAPP_PHONE_NUMBER_ID", ErrMissingRequiredConfig)
		}
	}

	if c.IsProduction() {
		if c.Sync.FunctionToken == "" {
			return fmt.Errorf("%w: SYNC_FUNCTION_TOKEN", ErrMissingRequiredConfig)
		}
		if c.WhatsApp.Enabled && c.WhatsApp.Token == "" {
			return fmt.Errorf("%w: WHATSAPP_TOKEN", ErrMissingRequiredConfig)
		}
	}

	return nil
}

// GetDatabaseURL returns the formatted database connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the formatted server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// GetRedisAddress returns host:port of the cache Redis
func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "atelier-ops")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
}

func getEnv(key, defaultValue string) string {
	if value := viper.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := viper.GetString(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := viper.GetString(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := viper.GetString(key); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := viper.GetString(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := viper.GetString(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	pairs := strings.Split(queuesStr, ",")
	for _, pair := range pairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				queues[name] = priority
			}
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
