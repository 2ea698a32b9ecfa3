package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propdata/property-api/internal/api/metrics"
	"github.com/propdata/property-api/internal/core/domain"
	"github.com/propdata/property-api/internal/ratelimit"
)

// clientKey identifies the requester for rate-limit bucketing. The
// authenticated subject wins when a prior middleware has set one, so users
// behind a shared NAT do not starve each other; otherwise the client IP is
// used. The rule is fixed, not dependent on request content.
func clientKey(c echo.Context) string {
	if subject, ok := c.Get(CtxSubject).(string); ok && subject != "" {
		return subject
	}
	return c.RealIP()
}

// RateLimit throttles the route according to its requirement's policy.
// Denials carry Retry-After plus the X-RateLimit-* headers and surface as
// 429 without touching the handler.
func RateLimit(limiter *ratelimit.Limiter, requirement domain.RouteRequirement, policy ratelimit.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision, err := limiter.Allow(c.Request().Context(), clientKey(c), requirement.Name, policy)
			if err != nil {
				// Fail open on store errors; the limiter already decided Allowed.
				c.Logger().Warnf("rate limit store error: %v", err)
			}

			if !decision.Allowed {
				metrics.RateLimitedTotal.WithLabelValues(requirement.Name).Inc()

				retryAfter := int(decision.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				h := c.Response().Header()
				h.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				h.Set("X-RateLimit-Limit", fmt.Sprintf("%d", decision.Limit))
				h.Set("X-RateLimit-Remaining", "0")

				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			return next(c)
		}
	}
}
