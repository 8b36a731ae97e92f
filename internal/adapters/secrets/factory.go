package secrets

import (
	"context"
	"fmt"

	"github.com/kevin07696/pesapal-merchant/internal/config"
	"github.com/kevin07696/pesapal-merchant/internal/domain/ports"
	"go.uber.org/zap"
)

// NewReader builds the secret reader selected by cfg.Backend.
// It returns nil, nil for the "none" backend.
func NewReader(ctx context.Context, cfg config.SecretsConfig, logger *zap.Logger) (ports.SecretReader, error) {
	switch cfg.Backend {
	case config.SecretsBackendNone, "":
		return nil, nil
	case config.SecretsBackendLocal:
		logger.Warn("reading Pesapal credentials from the local filesystem, do not use in production",
			zap.String("base_path", cfg.Local.BasePath),
		)
		return NewLocalSecretReader(cfg.Local.BasePath, logger), nil
	case config.SecretsBackendAWS:
		awsCfg := DefaultAWSSecretsManagerConfig(cfg.AWS.Region)
		awsCfg.CacheTTL = cfg.CacheTTL
		return NewAWSSecretsManagerFromConfig(ctx, awsCfg, logger)
	case config.SecretsBackendVault:
		vaultCfg := DefaultVaultConfig(cfg.Vault.Address)
		vaultCfg.Token = cfg.Vault.Token
		vaultCfg.Namespace = cfg.Vault.Namespace
		vaultCfg.MountPath = cfg.Vault.Mount
		vaultCfg.CacheTTL = cfg.CacheTTL
		return NewVaultReader(vaultCfg, logger)
	default:
		return nil, fmt.Errorf("unknown secrets backend %q", cfg.Backend)
	}
}
