// Package session persists server-side browser sessions keyed by an opaque
// session id, with expiry computed at write time and enforced lazily on
// read.
//
// Two interchangeable backends implement [Store]: [FileStore], the default,
// keeps one JSON file per session under a directory; [RedisStore] keeps the
// same records in Redis for deployments running more than one server
// instance without a shared filesystem.
//
// # Concurrency
//
// Different session ids never interfere: the file store isolates them in
// distinct files written via uniquely-named temp files and atomic rename.
// Two writers racing on the same id resolve as "last rename wins" — an
// accepted race, since session payloads carry no counters or other state
// needing sequential consistency.
//
// # What this package must NOT do
//
//   - Use a raw session id as a filename or trust a client-supplied expiry.
//   - Swallow write-path I/O failures; only "not found" is a soft outcome.
//   - Run a background sweeper. Expired records are purged by the next read
//     that observes them.
package session
