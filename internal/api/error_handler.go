package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clubhouse/members-only/internal/api/middleware"
	"github.com/clubhouse/members-only/internal/core/domain"
	"github.com/clubhouse/members-only/internal/web"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders the HTML error page, or plain text if rendering fails.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := resolveError(err, log, c)
		title := http.StatusText(code)
		if code >= http.StatusInternalServerError {
			title = "Something went wrong"
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		page := web.Page{Title: title, CurrentUser: middleware.CurrentUser(c)}
		if rerr := c.Render(code, web.PageError, page); rerr != nil {
			log.Error().Err(rerr).Msg("render error page")
			_ = c.String(code, title)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) int {
	// Echo's own errors (bind failures, 404/405 from the router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
		}
		return he.Code
	}

	switch {
	case errors.Is(err, domain.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	}

	logUnhandled(log, c, err)
	return http.StatusInternalServerError
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
