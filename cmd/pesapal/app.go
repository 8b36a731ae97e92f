package main

import (
	"context"
	"fmt"

	"github.com/kevin07696/pesapal-merchant/internal/adapters/pesapal"
	"github.com/kevin07696/pesapal-merchant/internal/adapters/secrets"
	"github.com/kevin07696/pesapal-merchant/internal/config"
	"github.com/kevin07696/pesapal-merchant/internal/domain"
	"github.com/kevin07696/pesapal-merchant/internal/domain/ports"
	"github.com/kevin07696/pesapal-merchant/internal/services/merchant"
	pkghttp "github.com/kevin07696/pesapal-merchant/pkg/http"
	"github.com/kevin07696/pesapal-merchant/pkg/logging"
	"go.uber.org/zap"
)

// app holds everything a command needs
type app struct {
	cfg         *config.Config
	logger      *zap.Logger
	credentials domain.Credentials
	adapter     *pesapal.MerchantAdapter
	breaker     *pkghttp.BreakerClient // nil unless gateway.circuit_breaker is set
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		return nil, err
	}

	env, err := cfg.Environment()
	if err != nil {
		return nil, err
	}
	base, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}

	reader, err := secrets.NewReader(ctx, cfg.Secrets, logger)
	if err != nil {
		return nil, fmt.Errorf("secrets backend: %w", err)
	}
	creds, err := merchant.NewCredentialResolver(base, reader, cfg.Secrets.Path, logger).Resolve(ctx)
	if err != nil {
		return nil, err
	}

	clientCfg := pkghttp.GatewayClientConfig()
	clientCfg.InsecureSkipVerify = cfg.Gateway.InsecureSkipVerify
	clientCfg.Tracing = cfg.Gateway.Tracing
	a := &app{cfg: cfg, logger: logger, credentials: creds}

	var httpClient ports.HTTPClient = pkghttp.NewHTTPClient(clientCfg, cfg.Gateway.Timeout, logger)
	if cfg.Gateway.CircuitBreaker {
		a.breaker = pkghttp.NewBreakerClient(httpClient, "pesapal", pkghttp.DefaultBreakerConfig(), logger)
		httpClient = a.breaker
	}
	a.adapter = newAdapter(cfg, env, creds, httpClient, logger)

	return a, nil
}

func newAdapter(cfg *config.Config, env domain.Environment, creds domain.Credentials, httpClient ports.HTTPClient, logger *zap.Logger) *pesapal.MerchantAdapter {
	opts := []pesapal.Option{pesapal.WithBaseURL(cfg.Gateway.BaseURL)}
	if cfg.Gateway.ValidateOrders {
		opts = append(opts, pesapal.WithOrderValidation())
	}
	return pesapal.NewMerchantAdapter(creds, env, httpClient, logging.NewZapLogger(logger), opts...)
}
