package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/clubhouse/members-only/internal/core/domain"
)

// UnauthorizedMessage is flashed when a role check fails.
const UnauthorizedMessage = "Unauthorized action"

// RBAC enforces role-based access control. Requests from users holding none
// of the allowed roles, guests included, are redirected to the message list.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			for _, r := range allowedRoles {
				if user.HasRole(r) {
					return next(c)
				}
			}
			return flashRedirect(c, UnauthorizedMessage, "/")
		}
	}
}
