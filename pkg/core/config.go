package core

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRESTURL = "https://max-api.maicoin.com"
	DefaultWSURL   = "wss://max-stream.maicoin.com/ws"
)

// Config contains all configuration options for a MAX client.
type Config struct {
	RESTURL string `json:"rest_url" yaml:"rest_url" validate:"required,url"`
	WSURL   string `json:"ws_url" yaml:"ws_url" validate:"required,url"`

	// Timeout is the maximum duration for HTTP requests.
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"min=1ms"`
	// MaxRetries defaults to zero: a signed request carries a one-time nonce.
	MaxRetries int `json:"max_retries" yaml:"max_retries" validate:"min=0"`

	RateLimitRequests int           `json:"rate_limit_requests" yaml:"rate_limit_requests" validate:"min=1"`
	RateLimitPeriod   time.Duration `json:"rate_limit_period" yaml:"rate_limit_period" validate:"min=1ms"`

	// PublicRateLimit and PrivateRateLimit cap public and private routes per
	// RateLimitPeriod inside the global budget. Zero leaves a route class on
	// the global budget only.
	PublicRateLimit  int `json:"public_rate_limit" yaml:"public_rate_limit" validate:"min=0"`
	PrivateRateLimit int `json:"private_rate_limit" yaml:"private_rate_limit" validate:"min=0"`

	// BreakerThreshold is the number of consecutive transport or server
	// failures that makes REST calls fail fast for BreakerCooldown. Zero
	// disables the breaker.
	BreakerThreshold int           `json:"breaker_threshold" yaml:"breaker_threshold" validate:"min=0"`
	BreakerCooldown  time.Duration `json:"breaker_cooldown" yaml:"breaker_cooldown"`

	ReconnectEnabled bool `json:"reconnect_enabled" yaml:"reconnect_enabled"`

	LogLevel string `json:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	AccessKeyEnv string `json:"access_key_env" yaml:"access_key_env"`
	SecretKeyEnv string `json:"secret_key_env" yaml:"secret_key_env"`
}

// DefaultConfig returns a Config for the MAX production endpoints.
// Default values: 10s timeout, no retries, 1200 req/min split 600/600
// between public and private routes, reconnect on.
func DefaultConfig() *Config {
	return &Config{
		RESTURL:    DefaultRESTURL,
		WSURL:      DefaultWSURL,
		Timeout:    10 * time.Second,
		MaxRetries: 0,

		RateLimitRequests: 1200,
		RateLimitPeriod:   time.Minute,
		PublicRateLimit:   600,
		PrivateRateLimit:  600,

		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,

		ReconnectEnabled: true,

		LogLevel: "info",

		AccessKeyEnv: "MAX_API_KEY",
		SecretKeyEnv: "MAX_API_SECRET",
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	return validate.Struct(c)
}

// Credentials loads credentials from the configured environment variables.
func (c *Config) Credentials() (*Credentials, error) {
	return CredentialsFromEnv(c.AccessKeyEnv, c.SecretKeyEnv)
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRateLimit sets the rate limiting parameters and returns the config for chaining.
func (c *Config) WithRateLimit(requests int, period time.Duration) *Config {
	c.RateLimitRequests = requests
	c.RateLimitPeriod = period
	return c
}

// WithEndpoints overrides the REST and websocket base URLs.
func (c *Config) WithEndpoints(restURL, wsURL string) *Config {
	c.RESTURL = restURL
	c.WSURL = wsURL
	return c
}
