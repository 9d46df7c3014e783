package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken is returned when a token does not split into exactly
	// three segments or a segment fails to decode.
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidSignature is returned when the recomputed signature does not
	// match the supplied one, regardless of where the mismatch occurs.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrUnsupportedAlgorithm is returned when the token header names any
	// algorithm other than HS256.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	// ErrExpired is returned when the token carries an exp claim at or
	// before the current time.
	ErrExpired = errors.New("token expired")
)

const minSecretBytes = 32

// Codec signs and verifies bearer tokens with a single HMAC-SHA256 secret.
// Instances are configured once and safe for concurrent use.
type Codec struct {
	secret []byte
}

// NewCodec validates the secret and returns a codec bound to it.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) < minSecretBytes {
		return nil, fmt.Errorf("token secret must be at least %d bytes", minSecretBytes)
	}
	return &Codec{secret: append([]byte(nil), secret...)}, nil
}

// Sign builds a token from the caller's claims plus an "iat" issued-at
// timestamp, and an "exp" expiry when ttl resolves to a positive duration
// under [ParseTTL]. An unrecognized ttl mints a token with no expiry rather
// than failing the call.
//
// Caller claims named "iat" or "exp" are overwritten.
func (c *Codec) Sign(claims map[string]any, ttl string) (string, error) {
	now := time.Now()

	merged := make(jwt.MapClaims, len(claims)+2)
	for k, v := range claims {
		merged[k] = v
	}
	merged["iat"] = now.Unix()
	if d, ok := ParseTTL(ttl); ok {
		merged["exp"] = now.Add(d).Unix()
	} else {
		delete(merged, "exp")
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, merged).SignedString(c.secret)
}

// Verify checks the token's shape, algorithm, signature, and expiry, in a
// way that lets callers distinguish the failure modes:
//
//   - [ErrMalformedToken] — not three decodable segments
//   - [ErrUnsupportedAlgorithm] — header algorithm is not HS256
//   - [ErrInvalidSignature] — signature mismatch (constant-time compare)
//   - [ErrExpired] — exp claim at or before now
//
// On success it returns the decoded claims, including the iat and any exp
// stamped at signing time.
func (c *Codec) Verify(tokenStr string) (map[string]any, error) {
	parsed, err := jwt.NewParser().Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrUnsupportedAlgorithm
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedAlgorithm):
			return nil, ErrUnsupportedAlgorithm
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		default:
			return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
		}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
