package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubhouse/members-only/internal/core/domain"
	"github.com/clubhouse/members-only/internal/session"
)

// Context keys set by the Session middleware.
const (
	SessionKey = "session"
	UserKey    = "user"
)

// CurrentSession returns the request's session, or nil when the Session
// middleware did not run.
func CurrentSession(c echo.Context) *session.Session {
	s, _ := c.Get(SessionKey).(*session.Session)
	return s
}

// CurrentUser returns the authenticated user, or nil for guests.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(UserKey).(*domain.User)
	return u
}

// flashRedirect queues an error flash and redirects with 303.
func flashRedirect(c echo.Context, text, to string) error {
	if s := CurrentSession(c); s != nil {
		if err := s.AddFlash(c.Request().Context(), domain.FlashError, text); err != nil {
			return err
		}
	}
	return c.Redirect(http.StatusSeeOther, to)
}
