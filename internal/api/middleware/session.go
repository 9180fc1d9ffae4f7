package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookline/booking-gateway/internal/core/service"
)

// RequireSession guards the admin surface: requests are rejected outright
// when no session token is present, and the effective identity is injected
// into the request context for handlers.
func RequireSession(sessions *service.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !sessions.IsAuthenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			sess := sessions.Current()
			c.Set("subject", sess.SubjectID)
			c.Set("role", sess.Role)
			c.Set("tenant_id", sess.TenantID)

			return next(c)
		}
	}
}
