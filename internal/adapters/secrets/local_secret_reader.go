package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kevin07696/pesapal-merchant/internal/domain/ports"
	"go.uber.org/zap"
)

// LocalSecretReader reads secrets from files under a base directory.
// WARNING: This is for development only. Use AWS Secrets Manager or Vault in production.
type LocalSecretReader struct {
	basePath string
	logger   *zap.Logger
}

// NewLocalSecretReader creates a filesystem secret reader rooted at basePath
func NewLocalSecretReader(basePath string, logger *zap.Logger) *LocalSecretReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalSecretReader{basePath: basePath, logger: logger}
}

// GetSecret reads basePath/secretPath. A file holding {"value": "..."} is
// unwrapped; anything else is returned verbatim.
func (r *LocalSecretReader) GetSecret(_ context.Context, secretPath string) (*ports.Secret, error) {
	filePath, err := r.resolve(secretPath)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Reading secret from filesystem", zap.String("path", secretPath))

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("secret not found: %s", secretPath)
		}
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	var wrapped struct {
		Value     string            `json:"value"`
		Tags      map[string]string `json:"tags"`
		CreatedAt string            `json:"created_at"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Value != "" {
		return &ports.Secret{
			Value:     wrapped.Value,
			Version:   "v1",
			Metadata:  wrapped.Tags,
			CreatedAt: wrapped.CreatedAt,
		}, nil
	}

	return &ports.Secret{
		Value:   strings.TrimSpace(string(data)),
		Version: "v1",
	}, nil
}

// resolve keeps lookups inside basePath
func (r *LocalSecretReader) resolve(secretPath string) (string, error) {
	filePath := filepath.Join(r.basePath, secretPath)
	rel, err := filepath.Rel(r.basePath, filePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("secret path escapes base directory: %s", secretPath)
	}
	return filePath, nil
}
