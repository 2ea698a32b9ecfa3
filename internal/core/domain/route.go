package domain

import "fmt"

// RouteRequirement is a static, per-route access declaration: which roles
// may call the route and how hard it is throttled. Requirements are built
// once at startup and read-only afterwards.
type RouteRequirement struct {
	// Name identifies the route for rate-limit bucketing and metrics,
	// e.g. "POST /api/search".
	Name string
	// Roles is the set of roles allowed to call the route. Empty means the
	// route is public (no bearer token required).
	Roles []Role
	// RatePolicy is the throttle in "N/period" form (period one of second,
	// minute, hour). Empty means unthrottled.
	RatePolicy string
}

// Protected reports whether the route requires a valid bearer token.
func (r RouteRequirement) Protected() bool {
	return len(r.Roles) > 0
}

// Allows reports whether the given role is in the route's allowed set.
func (r RouteRequirement) Allows(role Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// NewPublicRoute declares a route anyone may call, throttled by policy
// (empty policy means unthrottled).
func NewPublicRoute(name, policy string) RouteRequirement {
	return RouteRequirement{Name: name, RatePolicy: policy}
}

// NewProtectedRoute declares a bearer-protected route. An empty allowed-role
// set is rejected here, at startup, so a misdeclared route can never fail
// open (or closed) at request time.
func NewProtectedRoute(name, policy string, roles ...Role) (RouteRequirement, error) {
	if name == "" {
		return RouteRequirement{}, fmt.Errorf("%w: route requirement with empty name", ErrConfiguration)
	}
	if len(roles) == 0 {
		return RouteRequirement{}, fmt.Errorf("%w: route %s declares no allowed roles", ErrConfiguration, name)
	}
	for _, role := range roles {
		if _, err := ParseRole(string(role)); err != nil {
			return RouteRequirement{}, fmt.Errorf("%w: route %s declares unknown role %q", ErrConfiguration, name, role)
		}
	}
	return RouteRequirement{Name: name, Roles: roles, RatePolicy: policy}, nil
}
