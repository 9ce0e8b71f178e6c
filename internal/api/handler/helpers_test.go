package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clubhouse/members-only/internal/api/middleware"
	"github.com/clubhouse/members-only/internal/core/domain"
	"github.com/clubhouse/members-only/internal/session"
	"github.com/clubhouse/members-only/internal/web"
)

// testRequest is a handler invocation with a live session behind it.
type testRequest struct {
	c     echo.Context
	rec   *httptest.ResponseRecorder
	sess  *session.Session
	store *session.MemoryStore
}

func newTestRequest(t *testing.T, method, target string, form url.Values, user *domain.User) *testRequest {
	t.Helper()
	e := echo.New()
	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e.Renderer = renderer
	e.Validator = NewValidator()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	store := session.NewMemoryStore()
	manager := session.NewManager(store, session.Options{Secret: []byte("test-secret"), TTL: time.Hour})
	sess, err := manager.Load(context.Background(), req, rec)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	c.Set(middleware.SessionKey, sess)
	if user != nil {
		c.Set(middleware.UserKey, user)
	}
	return &testRequest{c: c, rec: rec, sess: sess, store: store}
}

// expectRedirect asserts a 303 to location carrying exactly one flash.
func (tr *testRequest) expectRedirect(t *testing.T, location string, kind domain.FlashKind, text string) {
	t.Helper()
	if tr.rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", tr.rec.Code)
	}
	if got := tr.rec.Header().Get(echo.HeaderLocation); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
	flashes, err := tr.sess.Flashes(context.Background())
	if err != nil {
		t.Fatalf("flashes: %v", err)
	}
	if len(flashes) != 1 || flashes[0].Kind != kind || flashes[0].Text != text {
		t.Fatalf("expected %s flash %q, got %+v", kind, text, flashes)
	}
}

func (tr *testRequest) expectBody(t *testing.T, code int, fragments ...string) {
	t.Helper()
	if tr.rec.Code != code {
		t.Fatalf("expected %d, got %d", code, tr.rec.Code)
	}
	body := tr.rec.Body.String()
	for _, f := range fragments {
		if !strings.Contains(body, f) {
			t.Fatalf("expected body to contain %q\n%s", f, body)
		}
	}
}

var (
	alice = &domain.User{ID: "u1", FirstName: "Alice", LastName: "Johnson", Email: "alice@example.com"}
	admin = &domain.User{ID: "u9", FirstName: "Ada", LastName: "Admin", Email: "ada@example.com", IsMember: true, IsAdmin: true}
)
