package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/propdata/property-api/internal/api/metrics"
	"github.com/propdata/property-api/internal/core/domain"
	"github.com/propdata/property-api/internal/core/ports"
)

// Context keys set by Auth for downstream middleware and handlers.
const (
	CtxSubject = "subject"
	CtxRole    = "role"
)

// Auth validates the bearer token and injects the claims into context.
// Missing header, malformed header, bad signature and stale expiry all
// resolve to 401; the body never says which.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthFailuresTotal.WithLabelValues("malformed_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.AuthFailuresTotal.WithLabelValues("token_expired").Inc()
				} else {
					metrics.AuthFailuresTotal.WithLabelValues("token_invalid").Inc()
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(CtxSubject, claims.Subject)
			c.Set(CtxRole, claims.Role)

			return next(c)
		}
	}
}
