package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		input   string
		want    Environment
		wantErr bool
	}{
		{"", EnvironmentDevelopment, false},
		{"development", EnvironmentDevelopment, false},
		{"Development", EnvironmentDevelopment, false},
		{" production ", EnvironmentProduction, false},
		{"PRODUCTION", EnvironmentProduction, false},
		{"sandbox", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEnvironment(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidEnvironment))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvironment_IsProduction(t *testing.T) {
	assert.True(t, EnvironmentProduction.IsProduction())
	assert.False(t, EnvironmentDevelopment.IsProduction())
}

func TestCredentials_WithDefaults(t *testing.T) {
	t.Run("empty_credentials_become_placeholders", func(t *testing.T) {
		got := Credentials{}.WithDefaults()

		assert.Equal(t, DefaultCredentials(), got)
		assert.Equal(t, "http://0.0.0.0:3000/pesapal/callback", got.CallbackURL)
		assert.Equal(t, "<YOUR_CONSUMER_KEY>", got.ConsumerKey)
		assert.Equal(t, "<YOUR_CONSUMER_SECRET>", got.ConsumerSecret)
		assert.True(t, got.IsPlaceholder())
	})

	t.Run("supplied_fields_are_kept", func(t *testing.T) {
		got := Credentials{ConsumerKey: "key", ConsumerSecret: "secret"}.WithDefaults()

		assert.Equal(t, "key", got.ConsumerKey)
		assert.Equal(t, "secret", got.ConsumerSecret)
		assert.Equal(t, DefaultCallbackURL, got.CallbackURL)
		assert.False(t, got.IsPlaceholder())
	})
}

func TestCredentials_Merge(t *testing.T) {
	base := Credentials{ConsumerKey: "file-key", ConsumerSecret: "file-secret", CallbackURL: "https://shop.example.com/cb"}

	got := base.Merge(Credentials{ConsumerSecret: "vault-secret"})

	assert.Equal(t, "file-key", got.ConsumerKey)
	assert.Equal(t, "vault-secret", got.ConsumerSecret)
	assert.Equal(t, "https://shop.example.com/cb", got.CallbackURL)
	assert.Equal(t, "file-secret", base.ConsumerSecret, "merge must not modify the receiver")
}

func TestCredentials_MaskedKey(t *testing.T) {
	assert.Equal(t, "qkio1***", Credentials{ConsumerKey: "qkio1BGGYAXTu2JOfm7XSXNruoZsrqEW"}.MaskedKey())
	assert.Equal(t, "***", Credentials{ConsumerKey: "abc"}.MaskedKey())
	assert.Equal(t, "?", Credentials{}.MaskedKey())
}
