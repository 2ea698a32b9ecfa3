package domain

import "time"

// Role is the closed set of roles a user can hold. Anything outside the
// four declared values is rejected wherever a role is parsed.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
	RoleUser    Role = "user"
)

// Roles lists every valid role, in no particular order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleAgent, RoleUser}
}

// ParseRole converts a raw string into a Role. Unknown values return
// ErrInvalidRole so an unrecognised role can never pass through RBAC.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleAgent, RoleUser:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

// User models an authenticated actor. The auth core only ever reads users
// during credential verification; mutation (create, role update) goes
// through the repository.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
