package middleware

import (
	"github.com/labstack/echo/v4"
)

// RequireUser lets authenticated requests through and sends guests to the
// login page with message as an error flash.
func RequireUser(message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return flashRedirect(c, message, "/login")
			}
			return next(c)
		}
	}
}
