package ports

import "github.com/propdata/property-api/internal/core/domain"

// Claims are the validated assertions carried by an access token.
type Claims struct {
	Subject  string
	Role     domain.Role
	IssuedAt int64
	Expiry   int64
}

// TokenService issues and validates signed, time-bounded access tokens.
// Validation is pure computation over the token string and the clock; the
// service holds the process-wide signing secret, injected at startup.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	// Validate returns domain.ErrTokenExpired for a stale token and
	// domain.ErrTokenInvalid for any structural, signature or role failure.
	Validate(tokenString string) (Claims, error)
}
