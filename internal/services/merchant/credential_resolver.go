package merchant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kevin07696/pesapal-merchant/internal/domain"
	"github.com/kevin07696/pesapal-merchant/internal/domain/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var credentialResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pesapal_credential_resolutions_total",
	Help: "Total number of merchant credential resolutions",
}, []string{"source", "outcome"}) // source: config, secret_store

// secretDocument is the JSON stored in the secret backend.
// Absent fields keep the configured value.
type secretDocument struct {
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
	CallbackURL    string `json:"callback_url"`
}

// CredentialResolver produces the credentials a merchant adapter is built with.
// Configured values are overlaid with the secret store document when one is
// configured, and empty fields fall back to the placeholders.
type CredentialResolver struct {
	base       domain.Credentials
	secrets    ports.SecretReader
	secretPath string
	logger     *zap.Logger
}

// NewCredentialResolver creates a resolver. secrets may be nil, in which case
// only the configured credentials are used.
func NewCredentialResolver(base domain.Credentials, secrets ports.SecretReader, secretPath string, logger *zap.Logger) *CredentialResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialResolver{
		base:       base,
		secrets:    secrets,
		secretPath: secretPath,
		logger:     logger,
	}
}

// Resolve returns the effective credentials
func (r *CredentialResolver) Resolve(ctx context.Context) (domain.Credentials, error) {
	source := "config"
	creds := r.base

	if r.secrets != nil && r.secretPath != "" {
		source = "secret_store"

		secret, err := r.secrets.GetSecret(ctx, r.secretPath)
		if err != nil {
			credentialResolutions.WithLabelValues(source, "error").Inc()
			return domain.Credentials{}, fmt.Errorf("failed to fetch Pesapal credentials: %w", err)
		}

		var doc secretDocument
		if err := json.Unmarshal([]byte(secret.Value), &doc); err != nil {
			credentialResolutions.WithLabelValues(source, "error").Inc()
			// the error text may quote the secret, so it is not wrapped
			return domain.Credentials{}, fmt.Errorf("secret %s is not a credentials JSON document", r.secretPath)
		}

		creds = creds.Merge(domain.Credentials{
			ConsumerKey:    doc.ConsumerKey,
			ConsumerSecret: doc.ConsumerSecret,
			CallbackURL:    doc.CallbackURL,
		})
	}

	creds = creds.WithDefaults()
	if creds.IsPlaceholder() {
		credentialResolutions.WithLabelValues(source, "placeholder").Inc()
		r.logger.Warn("Pesapal credentials are placeholders",
			zap.String("source", source),
		)
	} else {
		credentialResolutions.WithLabelValues(source, "success").Inc()
	}

	r.logger.Info("Resolved Pesapal credentials",
		zap.String("source", source),
		zap.String("consumer_key", creds.MaskedKey()),
		zap.String("callback_url", creds.CallbackURL),
	)

	return creds, nil
}
