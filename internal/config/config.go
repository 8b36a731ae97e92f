// Package config loads the merchant client configuration from a YAML file
// and the environment. Environment variables take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/kevin07696/pesapal-merchant/internal/domain"
)

// Secret store backends
const (
	SecretsBackendNone  = "none"
	SecretsBackendLocal = "local"
	SecretsBackendAWS   = "aws"
	SecretsBackendVault = "vault"
)

// Config holds all application configuration
type Config struct {
	Mode        string            `yaml:"environment" env:"PESAPAL_ENVIRONMENT" env-default:"development" env-description:"development or production"`
	Development CredentialsConfig `yaml:"development" env-prefix:"PESAPAL_DEVELOPMENT_"`
	Production  CredentialsConfig `yaml:"production" env-prefix:"PESAPAL_PRODUCTION_"`
	Gateway     GatewayConfig     `yaml:"gateway"`
	Server      ServerConfig      `yaml:"server"`
	Logger      LoggerConfig      `yaml:"logger"`
	Secrets     SecretsConfig     `yaml:"secrets"`
}

// CredentialsConfig is one environment's merchant credentials.
// Empty fields fall back to the documented placeholders.
type CredentialsConfig struct {
	ConsumerKey    string `yaml:"consumer_key" env:"CONSUMER_KEY"`
	ConsumerSecret string `yaml:"consumer_secret" env:"CONSUMER_SECRET"`
	CallbackURL    string `yaml:"callback_url" env:"CALLBACK_URL"`
}

// GatewayConfig holds Pesapal API client settings
type GatewayConfig struct {
	Timeout            time.Duration `yaml:"timeout" env:"PESAPAL_TIMEOUT" env-default:"30s"`
	BaseURL            string        `yaml:"base_url" env:"PESAPAL_BASE_URL" env-description:"overrides the environment's gateway domain"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify" env:"PESAPAL_INSECURE_SKIP_VERIFY" env-default:"false"`
	ValidateOrders     bool          `yaml:"validate_orders" env:"PESAPAL_VALIDATE_ORDERS" env-default:"false"`
	Tracing            bool          `yaml:"tracing" env:"PESAPAL_TRACING" env-default:"false"`
	CircuitBreaker     bool          `yaml:"circuit_breaker" env:"PESAPAL_CIRCUIT_BREAKER" env-default:"false"`
}

// ServerConfig holds the IPN listener configuration
type ServerConfig struct {
	Address        string        `yaml:"address" env:"SERVER_ADDRESS" env-default:"0.0.0.0:3000"`
	MetricsPort    string        `yaml:"metrics_port" env:"METRICS_PORT" env-default:"9090"`
	RateLimit      float64       `yaml:"rate_limit" env:"IPN_RATE_LIMIT" env-default:"5"`
	RateBurst      int           `yaml:"rate_burst" env:"IPN_RATE_BURST" env-default:"10"`
	HandlerTimeout time.Duration `yaml:"handler_timeout" env:"HANDLER_TIMEOUT" env-default:"30s"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL" env-default:"info"` // debug, info, warn, error
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT" env-default:"false"`
}

// SecretsConfig selects where consumer secrets are read from
type SecretsConfig struct {
	Backend  string        `yaml:"backend" env:"SECRETS_BACKEND" env-default:"none"`
	Path     string        `yaml:"path" env:"SECRETS_PATH" env-description:"secret holding the credentials JSON, e.g. pesapal/production"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"SECRETS_CACHE_TTL" env-default:"5m"`
	Local    struct {
		BasePath string `yaml:"base_path" env:"SECRETS_LOCAL_DIR" env-default:"./secrets"`
	} `yaml:"local"`
	AWS struct {
		Region string `yaml:"region" env:"AWS_REGION" env-default:"us-east-1"`
	} `yaml:"aws"`
	Vault struct {
		Address   string `yaml:"address" env:"VAULT_ADDR" env-default:"http://127.0.0.1:8200"`
		Token     string `yaml:"token" env:"VAULT_TOKEN"`
		Mount     string `yaml:"mount" env:"VAULT_MOUNT" env-default:"secret"`
		Namespace string `yaml:"namespace" env:"VAULT_NAMESPACE"`
	} `yaml:"vault"`
}

// Load reads path (if it exists) and then the environment.
// A missing file is not an error; a file that cannot be parsed is.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path != "" && fileExists(path) {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("load config: %w; %s", err, desc)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values cleanenv cannot check by itself
func (c *Config) Validate() error {
	if _, err := c.Environment(); err != nil {
		return err
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("gateway.timeout must be positive, got %v", c.Gateway.Timeout)
	}
	switch c.Secrets.Backend {
	case SecretsBackendNone, SecretsBackendLocal, SecretsBackendAWS, SecretsBackendVault:
	default:
		return fmt.Errorf("unknown secrets backend %q", c.Secrets.Backend)
	}
	if c.Secrets.Backend != SecretsBackendNone && c.Secrets.Path == "" {
		return errors.New("secrets.path is required when a secrets backend is configured")
	}
	return nil
}

// Environment returns the selected gateway environment
func (c *Config) Environment() (domain.Environment, error) {
	return domain.ParseEnvironment(c.Mode)
}

// Credentials returns the credential block of the selected environment
func (c *Config) Credentials() (domain.Credentials, error) {
	env, err := c.Environment()
	if err != nil {
		return domain.Credentials{}, err
	}

	block := c.Development
	if env.IsProduction() {
		block = c.Production
	}
	return domain.Credentials{
		ConsumerKey:    strings.TrimSpace(block.ConsumerKey),
		ConsumerSecret: strings.TrimSpace(block.ConsumerSecret),
		CallbackURL:    strings.TrimSpace(block.CallbackURL),
	}, nil
}

// LoadEnvFile exports the variables in a dotenv file that are not already
// set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" || !fileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
