package middleware

import (
	"net/http"

	"kantin/internal/common"

	"github.com/labstack/echo/v4"
)

// RequireRole gates a route group to one role. It runs after LoadProfile,
// which put the profile's role into the request context.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got, ok := common.GetRoleFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing role")
			}
			if got != role {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
