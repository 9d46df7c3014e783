package coverauth

import (
	"context"

	"github.com/coverpages/coverauth/session"
)

// UserRecord is one entry of the user registry: a username, the PHC-encoded
// argon2id password hash, and the account's role.
type UserRecord struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Role         Role   `json:"role"`
}

// UserProvider is the interface the engine uses to look up credentials.
// The registry package ships a file-backed implementation; callers with
// their own user storage implement this directly.
//
// GetUserByUsername returns [ErrUserNotFound] when no record exists.
// Implementations must be safe for concurrent use.
type UserProvider interface {
	GetUserByUsername(ctx context.Context, username string) (UserRecord, error)
}

// Identity is the request-scoped "who is calling" value produced by
// [Engine.Resolve]. It is a reduced view of a user record: no credential
// material, just the name and rank needed for authorization decisions.
type Identity struct {
	Username string
	Role     Role
}

// ResolvedIdentity is an [Identity] together with how it was resolved.
// Session-path resolutions carry the session id so the gate can slide the
// session's expiry on admission; token-path resolutions carry nothing,
// since token lifetime is fixed at issuance.
type ResolvedIdentity struct {
	Identity  Identity
	SessionID string
	// FromSession is true when the identity came from the session store
	// rather than a bearer token.
	FromSession bool

	sess *session.Session
}

// LoginResult is returned by [Engine.Login]: a signed bearer token for
// API-style callers and a fresh session id for browser callers. Both grants
// are always issued; callers use whichever transport suits them.
type LoginResult struct {
	Token     string
	SessionID string
	Identity  Identity
}
