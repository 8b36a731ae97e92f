package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	vault "github.com/hashicorp/vault/api"
	"github.com/kevin07696/pesapal-merchant/internal/domain/ports"
	"go.uber.org/zap"
)

// VaultConfig contains configuration for the HashiCorp Vault reader
type VaultConfig struct {
	// Vault server address (e.g., "https://vault.example.com:8200")
	Address string

	// Token for token authentication
	Token string

	// Vault namespace (Vault Enterprise)
	Namespace string

	// KV secrets engine mount path (default: "secret")
	MountPath string

	// KV version: "v1" or "v2" (default: "v2")
	KVVersion string

	// Cache TTL; zero disables caching
	CacheTTL time.Duration
}

// DefaultVaultConfig returns default configuration for the Vault reader
func DefaultVaultConfig(address string) *VaultConfig {
	return &VaultConfig{
		Address:   address,
		MountPath: "secret",
		KVVersion: "v2",
		CacheTTL:  5 * time.Minute,
	}
}

// VaultReader reads secrets from a Vault KV engine
type VaultReader struct {
	client *vault.Client
	config *VaultConfig
	logger *zap.Logger
	cache  *secretCache
}

// NewVaultReader creates a Vault reader using token authentication
func NewVaultReader(cfg *VaultConfig, logger *zap.Logger) (*VaultReader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Token == "" {
		return nil, errors.New("token is required for token auth")
	}
	if cfg.MountPath == "" {
		cfg.MountPath = "secret"
	}
	if cfg.KVVersion == "" {
		cfg.KVVersion = "v2"
	}

	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	client.SetToken(cfg.Token)
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	logger.Info("Vault reader initialized",
		zap.String("address", cfg.Address),
		zap.String("mount_path", cfg.MountPath),
		zap.String("kv_version", cfg.KVVersion),
	)

	return &VaultReader{
		client: client,
		config: cfg,
		logger: logger,
		cache:  newSecretCache(cfg.CacheTTL),
	}, nil
}

// GetSecret reads path under the configured mount. A "value" field is
// returned as is; otherwise the string fields are returned as a JSON object.
func (v *VaultReader) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	if cached := v.cache.get(path); cached != nil {
		v.logger.Debug("Secret retrieved from cache", zap.String("path", path))
		return cached, nil
	}

	fullPath := fmt.Sprintf("%s/%s", v.config.MountPath, path)
	if v.config.KVVersion == "v2" {
		fullPath = fmt.Sprintf("%s/data/%s", v.config.MountPath, path)
	}

	startTime := time.Now()
	secret, err := v.client.Logical().ReadWithContext(ctx, fullPath)
	if err != nil {
		v.logger.Error("Failed to retrieve secret from Vault",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read secret from Vault: %w", err)
	}
	if secret == nil {
		return nil, fmt.Errorf("secret not found: %s", path)
	}

	v.logger.Info("Secret retrieved from Vault",
		zap.String("path", path),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	secretData := secret.Data
	version := "1"
	var createdTime string
	if v.config.KVVersion == "v2" {
		data, ok := secret.Data["data"].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid secret format from Vault")
		}
		secretData = data

		if metadata, ok := secret.Data["metadata"].(map[string]interface{}); ok {
			if n, ok := metadata["version"].(json.Number); ok {
				version = n.String()
			}
			if ct, ok := metadata["created_time"].(string); ok {
				createdTime = ct
			}
		}
	}

	value, err := secretValue(secretData)
	if err != nil {
		return nil, fmt.Errorf("secret %s: %w", path, err)
	}

	result := &ports.Secret{
		Value:     value,
		Version:   version,
		CreatedAt: createdTime,
	}
	v.cache.set(path, result)
	return result, nil
}

func secretValue(data map[string]interface{}) (string, error) {
	if val, ok := data["value"].(string); ok && val != "" {
		return val, nil
	}

	fields := make(map[string]string, len(data))
	for k, val := range data {
		if s, ok := val.(string); ok {
			fields[k] = s
		}
	}
	if len(fields) == 0 {
		return "", errors.New("secret value is empty or not found")
	}

	b, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
