package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/kevin07696/pesapal-merchant/internal/domain/ports"
)

// MockSecretReader is an in-memory SecretReader for testing
type MockSecretReader struct {
	mu      sync.Mutex
	secrets map[string]string
	err     error

	Calls []string
}

// NewMockSecretReader creates a reader preloaded with path -> value pairs
func NewMockSecretReader(secrets map[string]string) *MockSecretReader {
	if secrets == nil {
		secrets = make(map[string]string)
	}
	return &MockSecretReader{secrets: secrets}
}

// SetError makes every subsequent GetSecret call fail with err
func (m *MockSecretReader) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetSecret implements ports.SecretReader
func (m *MockSecretReader) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, path)

	if m.err != nil {
		return nil, m.err
	}
	value, ok := m.secrets[path]
	if !ok {
		return nil, fmt.Errorf("secret not found: %s", path)
	}
	return &ports.Secret{Value: value, Version: "1"}, nil
}
