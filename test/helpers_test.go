//go:build integration
// +build integration

package test

import (
	"bytes"
	"context"
	"testing"

	coverauth "github.com/coverpages/coverauth"
	"github.com/coverpages/coverauth/password"
)

const seedPassword = "correct-horse-battery"

type memoryUsers map[string]coverauth.UserRecord

func (u memoryUsers) GetUserByUsername(_ context.Context, username string) (coverauth.UserRecord, error) {
	rec, ok := u[username]
	if !ok {
		return coverauth.UserRecord{}, coverauth.ErrUserNotFound
	}
	return rec, nil
}

func fastConfig(t *testing.T) coverauth.Config {
	t.Helper()
	cfg := coverauth.DefaultConfig()
	cfg.Token.Secret = bytes.Repeat([]byte{0x5a}, 32)
	cfg.Session.Dir = t.TempDir()
	cfg.Password = coverauth.PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
	return cfg
}

func seedUsers(t *testing.T, cfg coverauth.Config) memoryUsers {
	t.Helper()

	hasher, err := password.NewHasher(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	users := memoryUsers{}
	for name, role := range map[string]coverauth.Role{
		"vera": coverauth.RoleViewer,
		"edna": coverauth.RoleEditor,
		"adam": coverauth.RoleAdmin,
	} {
		users[name] = coverauth.UserRecord{Username: name, PasswordHash: hash, Role: role}
	}
	return users
}

func newEngine(t *testing.T, cfg coverauth.Config, opts ...func(*coverauth.Builder)) *coverauth.Engine {
	t.Helper()

	b := coverauth.New().
		WithConfig(cfg).
		WithUserProvider(seedUsers(t, cfg))
	for _, opt := range opts {
		opt(b)
	}

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}
