package domain

import "errors"

// Auth and access-control failures. The error handler maps each of these to
// a deterministic HTTP status; anything else becomes a 500.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidRole        = errors.New("invalid role")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)

// ErrConfiguration marks a startup-time misconfiguration (missing signing
// secret, empty allowed-role set, malformed rate-limit policy). It is fatal
// at boot and must never surface at request time.
var ErrConfiguration = errors.New("invalid configuration")
