// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Secret keys overlaid onto the configuration by LoadSecrets
const (
	SecretDBPassword    = "DB_PASSWORD"
	SecretSyncToken     = "SYNC_FUNCTION_TOKEN"
	SecretWhatsAppToken = "WHATSAPP_TOKEN"
)

const secretsCacheTTL = 5 * time.Minute

// SecretsProvider resolves secret values by key
type SecretsProvider interface {
	GetSecrets(ctx context.Context, keys []string) (map[string]string, error)
}

// SecretValueGetter is the part of the Secrets Manager client the provider uses
type SecretValueGetter interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretsManager reads one JSON object secret from AWS Secrets Manager
// and serves its keys from memory for a few minutes.
type AWSSecretsManager struct {
	client     SecretValueGetter
	secretName string
	logger     *slog.Logger

	mu        sync.Mutex
	values    map[string]string
	fetchedAt time.Time
}

var _ SecretsProvider = (*AWSSecretsManager)(nil)

// NewAWSSecretsManager creates a provider using the default AWS credential chain
func NewAWSSecretsManager(ctx context.Context, region, secretName string, logger *slog.Logger) (*AWSSecretsManager, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewAWSSecretsManagerWithClient(secretsmanager.NewFromConfig(cfg), secretName, logger), nil
}

// NewAWSSecretsManagerWithClient creates a provider over an existing client
func NewAWSSecretsManagerWithClient(client SecretValueGetter, secretName string, logger *slog.Logger) *AWSSecretsManager {
	return &AWSSecretsManager{
		client:     client,
		secretName: secretName,
		logger:     logger.With(slog.String("component", "secrets"), slog.String("provider", "aws")),
	}
}

// GetSecrets returns the requested keys present in the secret
func (sm *AWSSecretsManager) GetSecrets(ctx context.Context, keys []string) (map[string]string, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.values == nil || time.Since(sm.fetchedAt) >= secretsCacheTTL {
		values, err := sm.fetch(ctx)
		if err != nil {
			return nil, err
		}
		sm.values, sm.fetchedAt = values, time.Now()
	}

	found := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := sm.values[key]; ok {
			found[key] = v
		}
	}
	sm.logger.DebugContext(ctx, "secrets resolved",
		slog.Int("requested", len(keys)),
		slog.Int("found", len(found)))
	return found, nil
}

func (sm *AWSSecretsManager) fetch(ctx context.Context) (map[string]string, error) {
	out, err := sm.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(sm.secretName),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s: %w", sm.secretName, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", sm.secretName)
	}

	values := make(map[string]string)
	if err := json.Unmarshal([]byte(*out.SecretString), &values); err != nil {
		return nil, fmt.Errorf("failed to parse secret %s: %w", sm.secretName, err)
	}
	sm.logger.InfoContext(ctx, "secret fetched", slog.String("secret_name", sm.secretName))
	return values, nil
}

// EnvSecretsManager reads secrets from environment variables
type EnvSecretsManager struct{}

// GetSecrets returns the keys set in the environment
func (EnvSecretsManager) GetSecrets(_ context.Context, keys []string) (map[string]string, error) {
	found := make(map[string]string)
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			found[key] = v
		}
	}
	return found, nil
}

// NewSecretsProvider picks the provider named by cfg.App.SecretsProvider
func NewSecretsProvider(ctx context.Context, cfg *Config, logger *slog.Logger) (SecretsProvider, error) {
	switch cfg.App.SecretsProvider {
	case "", "env":
		return EnvSecretsManager{}, nil
	case "aws":
		return NewAWSSecretsManager(ctx, cfg.AWS.Region, cfg.App.SecretsName, logger)
	default:
		return nil, fmt.Errorf("unknown secrets provider %q", cfg.App.SecretsProvider)
	}
}

// secretTargets maps each secret key to the config field it overrides
func secretTargets(cfg *Config) map[string]*string {
	return map[string]*string{
		SecretDBPassword:    &cfg.Database.Password,
		SecretSyncToken:     &cfg.Sync.FunctionToken,
		SecretWhatsAppToken: &cfg.WhatsApp.Token,
	}
}

// LoadSecrets overlays credentials from provider onto cfg. Keys the
// provider does not know leave the loaded value untouched. Production
// settings are validated again afterwards.
func LoadSecrets(ctx context.Context, cfg *Config, provider SecretsProvider) error {
	targets := secretTargets(cfg)
	keys := make([]string, 0, len(targets))
	for k := range targets {
		keys = append(keys, k)
	}

	secrets, err := provider.GetSecrets(ctx, keys)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	for k, v := range secrets {
		if field, ok := targets[k]; ok {
			*field = v
		}
	}

	if cfg.IsProduction() {
		return (&ProductionValidator{}).Validate(cfg)
	}
	return nil
}
