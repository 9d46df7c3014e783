// Package token signs and verifies the compact bearer tokens used by the
// coverpages backend: three base64url segments (header, claims, HMAC-SHA256
// signature) joined by dots, with an issued-at claim and an optional expiry.
//
// # Architecture boundaries
//
// The codec is stateless and pure: verification depends only on the token,
// the configured secret, and the wall clock. There is no server-side token
// state and therefore no revocation; that trade-off is owned by the engine,
// not hidden here.
//
// # What this package must NOT do
//
//   - Accept any signing algorithm other than HS256, including "none".
//   - Compare signatures with anything but a constant-time check.
//   - Fail Sign on an unrecognized TTL — per the [ParseTTL] contract an
//     unparsable lifetime means "no expiry", not an error.
package token
