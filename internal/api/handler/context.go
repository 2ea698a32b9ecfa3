package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propdata/property-api/internal/api/middleware"
	"github.com/propdata/property-api/internal/core/domain"
)

// ctxIdentity extracts the claims injected by the Auth middleware. A missing
// role means the middleware did not run on this route, which is a wiring
// bug; fail closed with 401 rather than proceeding anonymously.
func ctxIdentity(c echo.Context) (subject string, role domain.Role, err error) {
	role, ok := c.Get(middleware.CtxRole).(domain.Role)
	if !ok {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	subject, _ = c.Get(middleware.CtxSubject).(string)
	return subject, role, nil
}
