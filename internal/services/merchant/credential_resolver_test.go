package merchant

import (
	"context"
	"errors"
	"testing"

	"github.com/kevin07696/pesapal-merchant/internal/domain"
	"github.com/kevin07696/pesapal-merchant/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const secretPath = "pesapal/production"

func TestCredentialResolver_ConfigOnly(t *testing.T) {
	base := domain.Credentials{ConsumerKey: "file-key", ConsumerSecret: "file-secret"}
	r := NewCredentialResolver(base, nil, "", zap.NewNop())

	creds, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "file-key", creds.ConsumerKey)
	assert.Equal(t, "file-secret", creds.ConsumerSecret)
	assert.Equal(t, domain.DefaultCallbackURL, creds.CallbackURL)
}

func TestCredentialResolver_SecretOverlaysConfig(t *testing.T) {
	reader := mocks.NewMockSecretReader(map[string]string{
		secretPath: `{"consumer_key":"vault-key","consumer_secret":"vault-secret"}`,
	})
	base := domain.Credentials{
		ConsumerKey:    "file-key",
		ConsumerSecret: "file-secret",
		CallbackURL:    "https://shop.example.com/pesapal/callback",
	}
	r := NewCredentialResolver(base, reader, secretPath, zap.NewNop())

	creds, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Credentials{
		ConsumerKey:    "vault-key",
		ConsumerSecret: "vault-secret",
		CallbackURL:    "https://shop.example.com/pesapal/callback",
	}, creds)
	assert.Equal(t, []string{secretPath}, reader.Calls)
}

func TestCredentialResolver_Placeholders(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := NewCredentialResolver(domain.Credentials{}, nil, "", zap.New(core))

	creds, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCredentials(), creds)
	assert.Equal(t, 1, logs.FilterMessage("Pesapal credentials are placeholders").Len())
}

func TestCredentialResolver_Errors(t *testing.T) {
	t.Run("reader_error", func(t *testing.T) {
		reader := mocks.NewMockSecretReader(nil)
		cause := errors.New("vault sealed")
		reader.SetError(cause)

		_, err := NewCredentialResolver(domain.Credentials{}, reader, secretPath, nil).Resolve(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("missing_secret", func(t *testing.T) {
		reader := mocks.NewMockSecretReader(map[string]string{})

		_, err := NewCredentialResolver(domain.Credentials{}, reader, secretPath, nil).Resolve(context.Background())
		assert.Error(t, err)
	})

	t.Run("not_json", func(t *testing.T) {
		reader := mocks.NewMockSecretReader(map[string]string{secretPath: "s3cr3t-plain-text"})

		_, err := NewCredentialResolver(domain.Credentials{}, reader, secretPath, nil).Resolve(context.Background())
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "s3cr3t")
	})
}

func TestCredentialResolver_NeverLogsSecret(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	reader := mocks.NewMockSecretReader(map[string]string{
		secretPath: `{"consumer_key":"vault-key-123456","consumer_secret":"top-secret-value"}`,
	})

	_, err := NewCredentialResolver(domain.Credentials{}, reader, secretPath, zap.New(core)).Resolve(context.Background())
	require.NoError(t, err)

	for _, entry := range logs.All() {
		for _, v := range entry.ContextMap() {
			assert.NotContains(t, v, "top-secret-value")
			assert.NotEqual(t, "vault-key-123456", v)
		}
	}
}
