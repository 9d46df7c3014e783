package coverauth

import "errors"

var (
	// ErrInvalidCredentials is returned by [Engine.Login] for a wrong password
	// or an unknown username. The two cases are deliberately not
	// distinguishable by the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned by [UserProvider] implementations when no
	// record exists for a username.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthenticated is returned by [Engine.Resolve] when neither the
	// bearer token nor the session cookie yields an identity. The underlying
	// cause (expired token, tampered signature, purged session) is wrapped
	// and reachable through errors.Is.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned by [Engine.Authorize] when an identity was
	// resolved but its role rank is below the required minimum.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidRole is returned when a role name is not one of the closed
	// set accepted by [ParseRole].
	ErrInvalidRole = errors.New("invalid role")
	// ErrSessionCreationFailed wraps a session-store write failure during
	// login. Login never reports success when persistence failed.
	ErrSessionCreationFailed = errors.New("session creation failed")
	// ErrEngineNotReady is an exported constant used by the engine before
	// initialization through [Builder.Build] completed.
	ErrEngineNotReady = errors.New("engine not initialized")
)
