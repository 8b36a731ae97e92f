package secrets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeSecretFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLocalSecretReader_GetSecret(t *testing.T) {
	dir := t.TempDir()
	credentials := `{"consumer_key":"k","consumer_secret":"s"}`
	writeSecretFile(t, dir, "pesapal/production", credentials+"\n")
	writeSecretFile(t, dir, "pesapal/wrapped", `{"value":"inner","tags":{"team":"payments"}}`)

	r := NewLocalSecretReader(dir, zap.NewNop())
	ctx := context.Background()

	t.Run("plain_document", func(t *testing.T) {
		s, err := r.GetSecret(ctx, "pesapal/production")
		require.NoError(t, err)
		assert.Equal(t, credentials, s.Value)
	})

	t.Run("wrapped_value", func(t *testing.T) {
		s, err := r.GetSecret(ctx, "pesapal/wrapped")
		require.NoError(t, err)
		assert.Equal(t, "inner", s.Value)
		assert.Equal(t, "payments", s.Metadata["team"])
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := r.GetSecret(ctx, "pesapal/missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret not found")
	})

	t.Run("path_traversal", func(t *testing.T) {
		_, err := r.GetSecret(ctx, "../outside")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "escapes base directory")
	})
}
