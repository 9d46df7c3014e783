// Package coverauth is the authentication and session-lifecycle engine of the
// coverpages CMS backend. It verifies credentials against a user registry,
// issues signed bearer tokens, persists browser sessions to durable storage
// with lazy expiry, and gates protected operations behind a ranked role
// hierarchy (viewer < editor < admin).
//
// The package is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Identity, LoginResult, MetricsSnapshot). Token encoding
// lives in the token subpackage, session persistence in session, password
// hashing in password, and HTTP adapters in middleware.
//
// # Architecture boundaries
//
// Engine methods are safe to call from multiple goroutines after
// initialization through [Builder.Build]. The engine never keeps a
// process-wide "current user"; the resolved identity for a request is
// attached to that request's context by the middleware package and travels no
// further than the request.
//
// # Known limitations
//
// Bearer tokens and cookie sessions are two independent capability grants.
// Logout destroys only the server-side session record; an unexpired token
// remains usable until its own expiry, because tokens carry no server-side
// state that could be revoked. Deployments that need early token revocation
// must front this engine with a denylist of their own.
//
// The file-backed session store assumes a single server process, or several
// processes sharing one filesystem. Independent instances with private
// storage will not see each other's sessions; point them at a shared volume
// or build the engine with [session.RedisStore] instead.
package coverauth
