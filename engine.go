package coverauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/coverpages/coverauth/password"
	"github.com/coverpages/coverauth/session"
	"github.com/coverpages/coverauth/token"
)

// Engine verifies credentials, issues bearer tokens, manages cookie-backed
// sessions, and answers the one question every protected route asks: who is
// calling and are they allowed. Construct it through [Builder.Build];
// methods are safe for concurrent use afterwards.
type Engine struct {
	config  Config
	codec   *token.Codec
	store   session.Store
	users   UserProvider
	hasher  *password.Hasher
	audit   *auditDispatcher
	metrics *Metrics
}

// Close flushes and stops the audit dispatcher. The engine must not be
// used after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Login checks the submitted credentials against the user registry and, on
// success, issues both grants: a signed bearer token for API callers and a
// fresh cookie-backed session for browser callers.
//
// Wrong password and unknown user both fail with [ErrInvalidCredentials].
// A session-store write failure fails the whole login with
// [ErrSessionCreationFailed]; login never reports success when persistence
// failed.
func (e *Engine) Login(ctx context.Context, username, pass string) (*LoginResult, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.auditLoginFailure(ctx, username, ErrInvalidCredentials)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	ok, err := e.hasher.Verify(pass, user.PasswordHash)
	if err != nil || !ok {
		e.auditLoginFailure(ctx, username, ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	identity := Identity{Username: user.Username, Role: user.Role}

	tok, err := e.IssueToken(identity, e.config.Token.TTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	sessionID := uuid.NewString()
	sess := &session.Session{
		Username:  identity.Username,
		Role:      identity.Role.String(),
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := e.store.Set(ctx, sessionID, sess, e.cookiePolicy()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionCreationFailed, err)
	}

	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricSessionCreated)
	e.emit(ctx, AuditEvent{
		EventType: EventLoginSuccess,
		Username:  identity.Username,
		SessionID: sessionID,
		Success:   true,
	})
	e.emit(ctx, AuditEvent{
		EventType: EventSessionCreated,
		Username:  identity.Username,
		SessionID: sessionID,
		Success:   true,
	})

	return &LoginResult{Token: tok, SessionID: sessionID, Identity: identity}, nil
}

// Logout destroys the session-store entry for sessionID. It is idempotent:
// logging out an already-absent session succeeds. Bearer tokens are
// untouched — an unexpired token remains usable until its own expiry.
func (e *Engine) Logout(ctx context.Context, sessionID string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if sessionID == "" {
		return nil
	}

	if err := e.store.Destroy(ctx, sessionID); err != nil {
		return err
	}

	e.metricInc(MetricSessionDestroyed)
	e.emit(ctx, AuditEvent{
		EventType: EventSessionDestroyed,
		SessionID: sessionID,
		Success:   true,
	})
	return nil
}

// IssueToken signs a bearer token carrying the identity's username ("sub")
// and role ("role"). The ttl follows [token.ParseTTL]; an unrecognized
// value mints a non-expiring token.
func (e *Engine) IssueToken(identity Identity, ttl string) (string, error) {
	if e == nil || e.codec == nil {
		return "", ErrEngineNotReady
	}
	if !identity.Role.Valid() {
		return "", fmt.Errorf("%w: %d", ErrInvalidRole, uint8(identity.Role))
	}

	tok, err := e.codec.Sign(map[string]any{
		"sub":  identity.Username,
		"role": identity.Role.String(),
	}, ttl)
	if err != nil {
		return "", err
	}

	e.metricInc(MetricTokenIssued)
	e.emit(context.Background(), AuditEvent{
		EventType: EventTokenIssued,
		Username:  identity.Username,
		Success:   true,
	})
	return tok, nil
}

// Resolve performs the per-request identity resolution: the bearer token is
// tried first, the session cookie second. Any failure to produce an
// identity — absent credentials, tampered or expired token, purged session,
// even a session-store fault — collapses into [ErrUnauthenticated] so the
// boundary response stays uniform, with the specific cause wrapped
// underneath for internal use (errors.Is can still see
// [token.ErrExpired], [session.ErrStoreIO], and the rest).
func (e *Engine) Resolve(ctx context.Context, bearerToken, sessionID string) (*ResolvedIdentity, error) {
	if e == nil || e.codec == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	var cause error

	if bearerToken != "" {
		claims, err := e.codec.Verify(bearerToken)
		if err == nil {
			identity, idErr := identityFromClaims(claims)
			if idErr == nil {
				return &ResolvedIdentity{Identity: identity}, nil
			}
			err = idErr
		}
		cause = err
	}

	if sessionID != "" {
		sess, err := e.store.Get(ctx, sessionID)
		if err == nil {
			role, roleErr := ParseRole(sess.Role)
			if roleErr == nil {
				return &ResolvedIdentity{
					Identity:    Identity{Username: sess.Username, Role: role},
					SessionID:   sessionID,
					FromSession: true,
					sess:        sess,
				}, nil
			}
			err = roleErr
		}
		if cause == nil {
			cause = err
		}
	}

	e.metricInc(MetricGateUnauthenticated)
	if cause != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, cause)
	}
	return nil, ErrUnauthenticated
}

// Authorize admits or rejects a resolved identity against a required
// minimum role. Rank deficiency fails with [ErrForbidden]. On admission via
// the session path the session's expiry is slid forward by a full rewrite;
// a renewal failure is a hard error, not a silent success. Token-path
// admissions renew nothing — token lifetime is fixed at issuance.
func (e *Engine) Authorize(ctx context.Context, res *ResolvedIdentity, minimum Role) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if res == nil {
		return ErrUnauthenticated
	}

	if !res.Identity.Role.AtLeast(minimum) {
		e.metricInc(MetricGateForbidden)
		e.emit(ctx, AuditEvent{
			EventType: EventAccessDenied,
			Username:  res.Identity.Username,
			SessionID: res.SessionID,
			IP:        clientIPFromContext(ctx),
			Error:     fmt.Sprintf("role %s below required %s", res.Identity.Role, minimum),
		})
		return ErrForbidden
	}

	if res.FromSession {
		if err := e.store.Touch(ctx, res.SessionID, res.sess, e.cookiePolicy()); err != nil {
			return err
		}
		e.metricInc(MetricSessionRenewed)
		e.emit(ctx, AuditEvent{
			EventType: EventSessionRenewed,
			Username:  res.Identity.Username,
			SessionID: res.SessionID,
			Success:   true,
		})
	}

	e.metricInc(MetricGateAdmitted)
	return nil
}

// SessionCookieName returns the configured name of the session cookie.
func (e *Engine) SessionCookieName() string {
	return e.config.Session.CookieName
}

// SessionCookie builds the login-response cookie carrying sessionID under
// the configured policy.
func (e *Engine) SessionCookie(sessionID string) *http.Cookie {
	cfg := e.config.Session
	cookie := &http.Cookie{
		Name:     cfg.CookieName,
		Value:    sessionID,
		Path:     cfg.CookiePath,
		Secure:   cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.CookieMaxAge > 0 {
		cookie.MaxAge = int(cfg.CookieMaxAge / time.Second)
	}
	return cookie
}

// ClearSessionCookie builds the logout-response cookie that removes the
// session cookie from the browser.
func (e *Engine) ClearSessionCookie() *http.Cookie {
	cookie := e.SessionCookie("")
	cookie.MaxAge = -1
	return cookie
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were dropped under
// backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) cookiePolicy() session.CookiePolicy {
	cfg := e.config.Session
	return session.CookiePolicy{
		Name:     cfg.CookieName,
		Path:     cfg.CookiePath,
		MaxAge:   cfg.CookieMaxAge,
		Secure:   cfg.CookieSecure,
		HTTPOnly: true,
	}
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	event.Timestamp = time.Now()
	if event.IP == "" {
		event.IP = clientIPFromContext(ctx)
	}
	e.audit.Emit(ctx, event)
}

func (e *Engine) auditLoginFailure(ctx context.Context, username string, cause error) {
	e.metricInc(MetricLoginFailure)
	e.emit(ctx, AuditEvent{
		EventType: EventLoginFailure,
		Username:  username,
		Error:     cause.Error(),
	})
}

func identityFromClaims(claims map[string]any) (Identity, error) {
	sub, _ := claims["sub"].(string)
	roleName, _ := claims["role"].(string)
	if sub == "" {
		return Identity{}, errors.New("token claims missing subject")
	}
	role, err := ParseRole(roleName)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Username: sub, Role: role}, nil
}
