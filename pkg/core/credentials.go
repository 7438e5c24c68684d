package core

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
)

// Credentials holds the MAX access and secret keys together with the nonce
// counter used by every request signed through them.
//
// The secret is never exported. Callers sign through Sign.
type Credentials struct {
	accessKey string
	secretKey string
	nonce     atomic.Uint64
	now       func() time.Time
}

// CredentialsOption configures a Credentials instance.
type CredentialsOption func(*Credentials)

// WithClock overrides the wall clock used to seed and advance the nonce.
func WithClock(now func() time.Time) CredentialsOption {
	return func(c *Credentials) {
		c.now = now
	}
}

// NewCredentials creates credentials with the nonce counter seeded one
// millisecond before the current time.
func NewCredentials(accessKey, secretKey string, opts ...CredentialsOption) *Credentials {
	c := &Credentials{
		accessKey: accessKey,
		secretKey: secretKey,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.nonce.Store(uint64(c.now().UnixMilli()) - 1)
	return c
}

// CredentialsFromEnv loads an optional .env file from the working directory
// and builds credentials from the named environment variables.
func CredentialsFromEnv(accessVar, secretVar string, opts ...CredentialsOption) (*Credentials, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	accessKey, ok := os.LookupEnv(accessVar)
	if !ok || accessKey == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrNoCredentials, accessVar)
	}
	secretKey, ok := os.LookupEnv(secretVar)
	if !ok || secretKey == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrNoCredentials, secretVar)
	}
	return NewCredentials(accessKey, secretKey, opts...), nil
}

// AccessKey returns the public access key.
func (c *Credentials) AccessKey() string {
	return c.accessKey
}

// Nonce returns the next nonce: max(previous+1, now in ms).
// Safe for concurrent use; never blocks.
func (c *Credentials) Nonce() uint64 {
	for {
		cur := c.nonce.Load()
		next := max(cur+1, uint64(c.now().UnixMilli()))
		if c.nonce.CompareAndSwap(cur, next) {
			return next
		}
	}
}

// Sign returns hex(HMAC-SHA256(secret, msg)).
func (c *Credentials) Sign(msg []byte) string {
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write(msg)
	return hex.EncodeToString(mac.Sum(nil))
}

// String masks the access key and omits the secret.
func (c *Credentials) String() string {
	return fmt.Sprintf("Credentials{access_key: %s}", maskKey(c.accessKey))
}

// GoString keeps %#v from printing the secret.
func (c *Credentials) GoString() string {
	return c.String()
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
