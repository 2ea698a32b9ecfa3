package ports

import (
	"context"

	"github.com/propdata/property-api/internal/core/domain"
)

// AuthService implements login, registration and admin role updates.
type AuthService interface {
	// Login verifies the credentials and returns a signed access token.
	// Unknown email and wrong password are indistinguishable to the caller:
	// both fail with domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Register(ctx context.Context, email, password string) (*domain.User, error)
	UpdateRole(ctx context.Context, email string, role domain.Role) (*domain.User, error)
}
