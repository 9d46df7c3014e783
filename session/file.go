package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is the fallback idle timeout when a FileStore is built with a
// non-positive one.
const DefaultTTL = 24 * time.Hour

// FileStore keeps one JSON file per session under dir. Files are addressed
// by the SHA-256 of the session id, so the raw id never appears on disk and
// a hostile id cannot traverse out of the directory. Writes go through a
// uniquely-named temp file in the same directory and an atomic rename, so a
// concurrent reader observes either the old record or the new one, never a
// torn write.
type FileStore struct {
	dir        string
	defaultTTL time.Duration
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store rooted at dir. The directory is created
// lazily on first write.
func NewFileStore(dir string, defaultTTL time.Duration) *FileStore {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &FileStore{dir: dir, defaultTTL: defaultTTL}
}

func (s *FileStore) path(sessionID string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

// Get reads the session, treating corrupt and expired records as absent and
// deleting them on the way out. Only filesystem failures other than
// "not found" surface as errors.
func (s *FileStore) Get(_ context.Context, sessionID string) (*Session, error) {
	path := s.path(sessionID)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrStoreIO, filepath.Base(path), err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil || rec.Session == nil {
		// Self-healing: a corrupt session is a logged-out user, not a crash.
		_ = os.Remove(path)
		return nil, ErrNotFound
	}

	if rec.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, ErrNotFound
	}

	return rec.Session, nil
}

// Set persists the session with an expiry computed from the policy
// (absolute expiry, then max-age, then the store default).
func (s *FileStore) Set(_ context.Context, sessionID string, sess *Session, policy CookiePolicy) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("%w: create session dir: %w", ErrStoreIO, err)
	}

	rec := record{
		ExpiresAt: computeExpiry(time.Now(), policy, s.defaultTTL),
		Session:   sess,
	}
	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("%w: encode session: %w", ErrStoreIO, err)
	}

	final := s.path(sessionID)
	// Unique per call: two writers racing on the same id each rename their
	// own temp file, and the last rename wins.
	tmp := fmt.Sprintf("%s.tmp.%d.%s", final, os.Getpid(), uuid.NewString())

	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: write session: %w", ErrStoreIO, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: rename session: %w", ErrStoreIO, err)
	}
	return nil
}

// Destroy removes the backing file. Removing an already-absent session is
// not an error.
func (s *FileStore) Destroy(_ context.Context, sessionID string) error {
	err := os.Remove(s.path(sessionID))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: remove session: %w", ErrStoreIO, err)
}

// Touch renews the expiry by rewriting the record.
func (s *FileStore) Touch(ctx context.Context, sessionID string, sess *Session, policy CookiePolicy) error {
	return s.Set(ctx, sessionID, sess, policy)
}
