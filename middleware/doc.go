// Package middleware exposes the HTTP authorization gate for routes served
// by the coverpages backend.
//
// [RequireRole] wraps a handler so that every request resolves an identity
// exactly once — bearer token first, session cookie second — compares its
// role rank against the required minimum, and either admits the request
// with the identity attached to its context or rejects it with 401/403.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Engine.Resolve and Engine.Authorize.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to the engine).
//   - Touch the session store (the engine owns renewal).
//   - Leak why authentication failed: the boundary response is a uniform
//     401 whether the token was tampered, expired, or absent.
package middleware
