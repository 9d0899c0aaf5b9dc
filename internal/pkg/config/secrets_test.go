// internal/pkg/config/secrets_test.go
package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/atelier-ops/internal/pkg/config"
	"github.com/ammerola/atelier-ops/test/helpers"
)

type fakeSecretsClient struct {
	secret *string
	err    error
	calls  int
}

func (f *fakeSecretsClient) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{Name: in.SecretId, SecretString: f.secret}, nil
}

func TestAWSSecretsManager_GetSecrets(t *testing.T) {
	tests := []struct {
		name     string
		client   *fakeSecretsClient
		expected map[string]string
		wantErr  string
	}{
		{
			name:     "returns_requested_keys_only",
			client:   &fakeSecretsClient{secret: aws.String(`{"DB_PASSWORD":"pw","OTHER":"x"}`)},
			expected: map[string]string{"DB_PASSWORD": "pw"},
		},
		{
			name:    "fetch_error",
			client:  &fakeSecretsClient{err: errors.New("access denied")},
			wantErr: "access denied",
		},
		{
			name:    "binary_secret_rejected",
			client:  &fakeSecretsClient{},
			wantErr: "no string value",
		},
		{
			name:    "malformed_json",
			client:  &fakeSecretsClient{secret: aws.String(`not json`)},
			wantErr: "failed to parse secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := config.NewAWSSecretsManagerWithClient(tt.client, "atelier/prod", helpers.TestLogger())

			got, err := sm.GetSecrets(context.Background(), []string{config.SecretDBPassword, config.SecretSyncToken})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAWSSecretsManager_CachesSecret(t *testing.T) {
	client := &fakeSecretsClient{secret: aws.String(`{"WHATSAPP_TOKEN":"wa"}`)}
	sm := config.NewAWSSecretsManagerWithClient(client, "atelier/prod", helpers.TestLogger())

	for range 3 {
		got, err := sm.GetSecrets(context.Background(), []string{config.SecretWhatsAppToken})
		require.NoError(t, err)
		assert.Equal(t, "wa", got[config.SecretWhatsAppToken])
	}
	assert.Equal(t, 1, client.calls)
}

func TestLoadSecrets(t *testing.T) {
	t.Run("overlays_known_keys", func(t *testing.T) {
		cfg := helpers.LoadTestConfig()
		cfg.Database.Password = "from-config"
		cfg.WhatsApp.Token = "wa-from-config"

		client := &fakeSecretsClient{secret: aws.String(`{"DB_PASSWORD":"from-secret","SYNC_FUNCTION_TOKEN":"sync"}`)}
		provider := config.NewAWSSecretsManagerWithClient(client, "atelier/test", helpers.TestLogger())

		require.NoError(t, config.LoadSecrets(context.Background(), cfg, provider))
		assert.Equal(t, "from-secret", cfg.Database.Password)
		assert.Equal(t, "sync", cfg.Sync.FunctionToken)
		assert.Equal(t, "wa-from-config", cfg.WhatsApp.Token)
	})

	t.Run("env_provider", func(t *testing.T) {
		t.Setenv(config.SecretWhatsAppToken, "wa-from-env")
		cfg := helpers.LoadTestConfig()

		require.NoError(t, config.LoadSecrets(context.Background(), cfg, config.EnvSecretsManager{}))
		assert.Equal(t, "wa-from-env", cfg.WhatsApp.Token)
	})

	t.Run("provider_error", func(t *testing.T) {
		provider := config.NewAWSSecretsManagerWithClient(&fakeSecretsClient{err: errors.New("throttled")}, "atelier/test", helpers.TestLogger())

		err := config.LoadSecrets(context.Background(), helpers.LoadTestConfig(), provider)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load secrets")
	})

	t.Run("production_still_validated", func(t *testing.T) {
		cfg := helpers.LoadTestConfig()
		cfg.App.Environment = "production"
		cfg.Sync.FunctionToken = ""

		err := config.LoadSecrets(context.Background(), cfg, config.EnvSecretsManager{})
		require.Error(t, err)
	})
}
