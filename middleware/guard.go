package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	coverauth "github.com/coverpages/coverauth"
)

type identityContextKey struct{}

// IdentityFromContext returns the identity attached by [RequireRole] for
// the current request.
func IdentityFromContext(ctx context.Context) (coverauth.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(coverauth.Identity)
	return identity, ok
}

// RequireRole returns middleware admitting only callers whose resolved role
// rank is at least minimum. Admission via the session path slides the
// session's expiry; admission via a bearer token renews nothing.
func RequireRole(engine *coverauth.Engine, minimum coverauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			bearer, _ := bearerToken(r.Header.Get("Authorization"))
			sessionID := sessionIDFromCookie(r, engine.SessionCookieName())

			ctx := coverauth.WithClientIP(r.Context(), remoteIP(r))

			res, err := engine.Resolve(ctx, bearer, sessionID)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if err := engine.Authorize(ctx, res, minimum); err != nil {
				switch {
				case errors.Is(err, coverauth.ErrForbidden):
					http.Error(w, "forbidden", http.StatusForbidden)
				case errors.Is(err, coverauth.ErrUnauthenticated):
					http.Error(w, "unauthorized", http.StatusUnauthorized)
				default:
					// Session renewal hit the disk and failed; surface the
					// fault instead of silently admitting without renewal.
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
				return
			}

			ctx = context.WithValue(ctx, identityContextKey{}, res.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

func sessionIDFromCookie(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func remoteIP(r *http.Request) string {
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i > 0 {
		return addr[:i]
	}
	return addr
}
