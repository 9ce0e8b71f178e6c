package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubhouse/members-only/internal/api/middleware"
	"github.com/clubhouse/members-only/internal/core/domain"
	"github.com/clubhouse/members-only/internal/session"
	"github.com/clubhouse/members-only/internal/web"
)

const genericErrorMessage = "An error occurred. Please try again."

var errNoSession = errors.New("session middleware not installed")

// ctxSession returns the request session and fails fast when the Session
// middleware is missing from the chain.
func ctxSession(c echo.Context) (*session.Session, error) {
	s := middleware.CurrentSession(c)
	if s == nil {
		return nil, errNoSession
	}
	return s, nil
}

// ctxUser returns the authenticated user. Routes using it sit behind
// RequireUser or RBAC, so a missing user means a wiring error.
func ctxUser(c echo.Context) (*domain.User, error) {
	u := middleware.CurrentUser(c)
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	return u, nil
}

// render fills in the viewer and drains pending flashes before rendering,
// so every flash shows up on exactly one page.
func render(c echo.Context, status int, name string, p web.Page) error {
	p.CurrentUser = middleware.CurrentUser(c)
	if s := middleware.CurrentSession(c); s != nil {
		flashes, err := s.Flashes(c.Request().Context())
		if err != nil {
			return err
		}
		p.Flashes = flashes
	}
	return c.Render(status, name, p)
}

// flashRedirect queues a flash and redirects with 303 See Other.
func flashRedirect(c echo.Context, kind domain.FlashKind, text, to string) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := s.AddFlash(c.Request().Context(), kind, text); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, to)
}

// validate runs the registered validator. It returns the user-facing
// messages when the input is invalid and a non-nil error only for failures
// that are not about the input.
func validate(c echo.Context, form any) ([]string, error) {
	err := c.Validate(form)
	if err == nil {
		return nil, nil
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Messages, nil
	}
	return nil, err
}

func bindForm(c echo.Context, form any) error {
	if err := c.Bind(form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	return nil
}
