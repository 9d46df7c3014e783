package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by Get for absent, expired, and unparsable
	// sessions alike; all three are equivalent to a logged-out user.
	ErrNotFound = errors.New("session not found")
	// ErrStoreIO wraps read/write/rename failures other than "not found".
	// Callers must treat it as a hard error, never as a missing session.
	ErrStoreIO = errors.New("session store i/o failure")
)

// Session is the payload persisted per session: a reduced identity. The
// store treats it as opaque data; it never drives expiry or addressing.
type Session struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at,omitempty"` // unix ms
}

// CookiePolicy carries the cookie attributes the caller wants on the
// session cookie. The store consumes only the expiry fields; the rest ride
// along so HTTP-layer callers can build the cookie from one value.
//
// Expiry priority at write time: Expires (absolute) wins over MaxAge
// (relative) wins over the store's default TTL.
type CookiePolicy struct {
	Name     string
	Path     string
	MaxAge   time.Duration
	Expires  time.Time
	Secure   bool
	HTTPOnly bool
}

// Store is the pluggable session backend contract.
//
// Get returns the stored session, or [ErrNotFound] for absent, expired, or
// corrupt records (purging the backing record as a side effect of the
// latter two). Set persists the session with a freshly computed expiry.
// Destroy removes the record and is idempotent. Touch renews the expiry by
// rewriting the whole record; it is deliberately identical to Set, there is
// no cheaper bump-expiry-only path.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
	Set(ctx context.Context, sessionID string, sess *Session, policy CookiePolicy) error
	Destroy(ctx context.Context, sessionID string) error
	Touch(ctx context.Context, sessionID string, sess *Session, policy CookiePolicy) error
}

// record is the on-disk / on-wire shape: the computed expiry plus the
// caller's payload.
type record struct {
	ExpiresAt int64    `json:"expires_at"` // unix ms
	Session   *Session `json:"session"`
}

func (r *record) expired(now time.Time) bool {
	return r.ExpiresAt <= now.UnixMilli()
}

func computeExpiry(now time.Time, policy CookiePolicy, defaultTTL time.Duration) int64 {
	switch {
	case !policy.Expires.IsZero():
		return policy.Expires.UnixMilli()
	case policy.MaxAge > 0:
		return now.Add(policy.MaxAge).UnixMilli()
	default:
		return now.Add(defaultTTL).UnixMilli()
	}
}
