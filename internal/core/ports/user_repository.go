package ports

import (
	"context"

	"github.com/propdata/property-api/internal/core/domain"
)

// UserRepository is the user store the auth core reads from. Lookup misses
// return domain.ErrUserNotFound.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateRole(ctx context.Context, email string, role domain.Role) (*domain.User, error)
}
