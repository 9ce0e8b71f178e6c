package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubhouse/members-only/internal/core/domain"
	"github.com/clubhouse/members-only/internal/web"
)

func serveError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	renderer, rerr := web.NewRenderer()
	require.NoError(t, rerr)

	e := echo.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.GET("/boom", func(echo.Context) error { return err })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	return rec
}

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		code  int
		title string
	}{
		{"unexpected", errors.New("mongo: connection refused"), http.StatusInternalServerError, "Something went wrong"},
		{"wrapped not found", fmt.Errorf("load: %w", domain.ErrMessageNotFound), http.StatusNotFound, "Not Found"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "Forbidden"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid form"), http.StatusBadRequest, "Bad Request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serveError(t, tc.err)
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.title)
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}
