package domain

import (
	"fmt"
	"strings"
)

// Environment represents the Pesapal environment a merchant talks to
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// Placeholder credentials used when no real credentials are supplied.
// Requests signed with them are well formed but rejected by the gateway.
const (
	DefaultCallbackURL    = "http://0.0.0.0:3000/pesapal/callback"
	DefaultConsumerKey    = "<YOUR_CONSUMER_KEY>"
	DefaultConsumerSecret = "<YOUR_CONSUMER_SECRET>"
)

// ParseEnvironment converts a configuration string to an Environment
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case "", EnvironmentDevelopment:
		return EnvironmentDevelopment, nil
	case EnvironmentProduction:
		return EnvironmentProduction, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEnvironment, s)
	}
}

// IsProduction returns true for the live gateway
func (e Environment) IsProduction() bool {
	return e == EnvironmentProduction
}

// Credentials identify a merchant to the gateway.
// Values are copied into each client and never mutated afterwards.
type Credentials struct {
	ConsumerKey    string `json:"consumer_key" yaml:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret" yaml:"consumer_secret"`
	CallbackURL    string `json:"callback_url" yaml:"callback_url"`
}

// DefaultCredentials returns the documented placeholder credentials
func DefaultCredentials() Credentials {
	return Credentials{
		ConsumerKey:    DefaultConsumerKey,
		ConsumerSecret: DefaultConsumerSecret,
		CallbackURL:    DefaultCallbackURL,
	}
}

// WithDefaults fills every empty field with its placeholder value
func (c Credentials) WithDefaults() Credentials {
	d := DefaultCredentials()
	if c.ConsumerKey == "" {
		c.ConsumerKey = d.ConsumerKey
	}
	if c.ConsumerSecret == "" {
		c.ConsumerSecret = d.ConsumerSecret
	}
	if c.CallbackURL == "" {
		c.CallbackURL = d.CallbackURL
	}
	return c
}

// Merge returns c with every non-empty field of other applied on top
func (c Credentials) Merge(other Credentials) Credentials {
	if other.ConsumerKey != "" {
		c.ConsumerKey = other.ConsumerKey
	}
	if other.ConsumerSecret != "" {
		c.ConsumerSecret = other.ConsumerSecret
	}
	if other.CallbackURL != "" {
		c.CallbackURL = other.CallbackURL
	}
	return c
}

// IsPlaceholder reports whether the key or secret is still a placeholder
func (c Credentials) IsPlaceholder() bool {
	return c.ConsumerKey == DefaultConsumerKey || c.ConsumerSecret == DefaultConsumerSecret
}

// MaskedKey returns the consumer key with all but the first characters hidden
func (c Credentials) MaskedKey() string {
	if len(c.ConsumerKey) > 5 {
		return c.ConsumerKey[:5] + "***"
	}
	if c.ConsumerKey == "" {
		return "?"
	}
	return "***"
}
