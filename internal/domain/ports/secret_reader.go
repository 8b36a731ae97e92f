package ports

import (
	"context"
)

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value     string            // The secret value, plain text or a JSON document
	Version   string            // Secret version identifier
	Metadata  map[string]string // Additional secret metadata
	CreatedAt string            // When this version was created
}

// SecretReader defines the port for reading merchant credentials from a secret store
// Supported backends: local filesystem, AWS Secrets Manager, HashiCorp Vault
type SecretReader interface {
	// GetSecret retrieves a secret by its path/name
	// Path format depends on implementation:
	//   - Local: "pesapal/production" relative to the base directory
	//   - AWS: "pesapal/production" or a full ARN
	//   - Vault: "pesapal/production" under the configured KV mount
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
