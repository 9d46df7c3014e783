package coverauth

import (
	"errors"
	"time"
)

// Config carries every tunable of the engine, grouped per concern.
// Instances are validated by [Builder.Build] and treated as immutable
// afterwards.
type Config struct {
	Token    TokenConfig
	Session  SessionConfig
	Password PasswordConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig configures bearer-token issuance.
type TokenConfig struct {
	// Secret is the HMAC signing key. At least 32 bytes.
	Secret []byte
	// TTL is the lifetime of issued tokens in [token.ParseTTL] form:
	// "30s", "15m", "24h", "7d", or a plain count of seconds. An
	// unrecognized value mints non-expiring tokens; see the ParseTTL
	// contract before relying on that.
	TTL string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig configures the session store and the browser cookie that
// transports the session id.
type SessionConfig struct {
	// Dir is the session directory for the default file-backed store.
	// Ignored when a custom store is supplied via [Builder.WithSessionStore].
	Dir string
	// DefaultTTL is the store-wide idle timeout applied when the cookie
	// policy carries neither an absolute expiry nor a max-age.
	DefaultTTL time.Duration
	// CookieName names the session cookie. CookieMaxAge, when positive,
	// overrides DefaultTTL as the per-write relative expiry.
	CookieName   string
	CookiePath   string
	CookieMaxAge time.Duration
	CookieSecure bool
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig carries argon2id parameters for credential verification.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking the request path when the
	// buffer is saturated. Drops are counted and exported.
	DropIfFull bool
}

// MetricsConfig controls the atomic counter set.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the preset used by the CMS backend: 24h tokens,
// 24h idle sessions, argon2id at 64MB/3 passes, audit and metrics on.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL: "24h",
		},
		Session: SessionConfig{
			DefaultTTL: 24 * time.Hour,
			CookieName: "coverauth_session",
			CookiePath: "/",
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

const minSecretBytes = 32

func validateConfig(cfg Config, hasCustomStore bool) error {
	if len(cfg.Token.Secret) < minSecretBytes {
		return errors.New("token secret must be at least 32 bytes")
	}
	if cfg.Session.DefaultTTL <= 0 {
		return errors.New("session default TTL must be positive")
	}
	if cfg.Session.CookieName == "" {
		return errors.New("session cookie name must not be empty")
	}
	if !hasCustomStore && cfg.Session.Dir == "" {
		return errors.New("session directory required when no custom store is set")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.Secret = append([]byte(nil), cfg.Token.Secret...)
	return out
}
