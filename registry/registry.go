// Package registry provides the file-backed user registry of the
// coverpages backend: a JSON array of user records, loaded at startup and
// read-only at runtime. User creation and deletion happen through the CMS
// admin screens, which rewrite the file and trigger [FileRegistry.Reload].
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	coverauth "github.com/coverpages/coverauth"
)

// FileRegistry implements [coverauth.UserProvider] over a JSON file of
// records like:
//
//	[{"username": "ada", "password_hash": "$argon2id$...", "role": "admin"}]
//
// Unknown role names and duplicate usernames fail at load time, never at
// comparison time.
type FileRegistry struct {
	path string

	mu    sync.RWMutex
	users map[string]coverauth.UserRecord
}

var _ coverauth.UserProvider = (*FileRegistry)(nil)

// Open reads and validates the registry file.
func Open(path string) (*FileRegistry, error) {
	r := &FileRegistry{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the registry file, replacing the in-memory set atomically.
// Lookups during a reload see either the old set or the new one.
func (r *FileRegistry) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read user registry: %w", err)
	}

	var records []coverauth.UserRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse user registry: %w", err)
	}

	users := make(map[string]coverauth.UserRecord, len(records))
	for _, rec := range records {
		if rec.Username == "" {
			return fmt.Errorf("user registry: record with empty username")
		}
		if rec.PasswordHash == "" {
			return fmt.Errorf("user registry: %q has no password hash", rec.Username)
		}
		if _, exists := users[rec.Username]; exists {
			return fmt.Errorf("user registry: duplicate username %q", rec.Username)
		}
		users[rec.Username] = rec
	}

	r.mu.Lock()
	r.users = users
	r.mu.Unlock()
	return nil
}

// GetUserByUsername returns the record for username, or
// [coverauth.ErrUserNotFound].
func (r *FileRegistry) GetUserByUsername(_ context.Context, username string) (coverauth.UserRecord, error) {
	r.mu.RLock()
	rec, ok := r.users[username]
	r.mu.RUnlock()

	if !ok {
		return coverauth.UserRecord{}, coverauth.ErrUserNotFound
	}
	return rec, nil
}

// Len reports how many users are loaded.
func (r *FileRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
