package middleware

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clubhouse/members-only/internal/core/domain"
	"github.com/clubhouse/members-only/internal/core/ports"
	"github.com/clubhouse/members-only/internal/session"
)

// Session resolves the session cookie and then expands its user reference
// into a full user record. A reference to a user that no longer exists is
// dropped and the request continues as a guest.
func Session(manager *session.Manager, users ports.UserFinder, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			sess, err := manager.Load(ctx, c.Request(), c.Response())
			if err != nil {
				return err
			}
			c.Set(SessionKey, sess)

			if uid := sess.UserID(); uid != "" {
				user, err := users.FindByID(ctx, uid)
				switch {
				case err == nil:
					c.Set(UserKey, user)
				case errors.Is(err, domain.ErrUserNotFound):
					log.Warn().Str("user_id", uid).Msg("session references unknown user")
					if err := sess.Forget(ctx); err != nil {
						return err
					}
				default:
					return fmt.Errorf("resolve session user: %w", err)
				}
			}

			return next(c)
		}
	}
}
