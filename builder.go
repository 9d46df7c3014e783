package coverauth

import (
	"errors"

	"github.com/coverpages/coverauth/password"
	"github.com/coverpages/coverauth/session"
	"github.com/coverpages/coverauth/token"
)

// Builder assembles an [Engine]. Construction is allocation-only until
// Build, which validates the configuration and wires the parts together.
//
//	engine, err := coverauth.New().
//		WithConfig(cfg).
//		WithUserProvider(users).
//		Build()
type Builder struct {
	config Config
	store  session.Store
	users  UserProvider
	sink   AuditSink

	built bool
}

// New returns a builder preloaded with [DefaultConfig]. The token secret
// and a user provider must still be supplied.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSessionStore overrides the default file-backed store, e.g. with
// [session.RedisStore] for multi-instance deployments.
func (b *Builder) WithSessionStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithUserProvider sets the credential registry. Required.
func (b *Builder) WithUserProvider(users UserProvider) *Builder {
	b.users = users
	return b
}

// WithAuditSink sets the destination for audit events. Without one, events
// are dispatched to a no-op sink (but still counted).
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// Build validates the configuration and returns a ready engine. A builder
// can be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.users == nil {
		return nil, errors.New("user provider is required")
	}
	if err := validateConfig(b.config, b.store != nil); err != nil {
		return nil, err
	}

	codec, err := token.NewCodec(b.config.Token.Secret)
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(password.Config{
		Memory:      b.config.Password.Memory,
		Time:        b.config.Password.Time,
		Parallelism: b.config.Password.Parallelism,
		SaltLength:  b.config.Password.SaltLength,
		KeyLength:   b.config.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	store := b.store
	if store == nil {
		store = session.NewFileStore(b.config.Session.Dir, b.config.Session.DefaultTTL)
	}

	b.built = true
	return &Engine{
		config:  b.config,
		codec:   codec,
		store:   store,
		users:   b.users,
		hasher:  hasher,
		audit:   newAuditDispatcher(b.config.Audit, b.sink),
		metrics: newMetrics(b.config.Metrics),
	}, nil
}
