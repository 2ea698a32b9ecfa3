package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propdata/property-api/internal/core/domain"
)

// RBAC gates the route on the role claim set by Auth. The requirement's
// role set is a logical OR; there is no hierarchy between roles. A request
// that reaches this middleware without a role claim means Auth was not run,
// which fails closed as 401 rather than 403.
func RBAC(requirement domain.RouteRequirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(domain.Role)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if !requirement.Allows(role) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
