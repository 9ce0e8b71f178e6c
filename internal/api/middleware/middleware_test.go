package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clubhouse/members-only/internal/core/domain"
	"github.com/clubhouse/members-only/internal/session"
)

type stubUsers struct {
	users map[string]*domain.User
	err   error
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func newManager() (*session.Manager, *session.MemoryStore) {
	store := session.NewMemoryStore()
	return session.NewManager(store, session.Options{Secret: []byte("secret"), TTL: time.Hour}), store
}

// loggedInCookie creates a session for userID and returns its cookie.
func loggedInCookie(t *testing.T, m *session.Manager, userID string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	s, err := m.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.Login(context.Background(), userID); err != nil {
		t.Fatalf("login: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatalf("no session cookie")
	return nil
}

func TestSession_Guest(t *testing.T) {
	e := echo.New()
	m, _ := newManager()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Session(m, &stubUsers{}, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		called = true
		if CurrentSession(c) == nil {
			t.Fatalf("session not set")
		}
		if CurrentUser(c) != nil {
			t.Fatalf("guest must not have a user")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestSession_ResolvesUser(t *testing.T) {
	e := echo.New()
	m, _ := newManager()
	users := &stubUsers{users: map[string]*domain.User{"u1": {ID: "u1", FirstName: "Alice"}}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(loggedInCookie(t, m, "u1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Session(m, users, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		u := CurrentUser(c)
		if u == nil || u.FirstName != "Alice" {
			t.Fatalf("user not resolved: %+v", u)
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSession_DanglingUserBecomesGuest(t *testing.T) {
	e := echo.New()
	m, _ := newManager()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(loggedInCookie(t, m, "deleted"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Session(m, &stubUsers{}, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		if CurrentUser(c) != nil {
			t.Fatalf("expected guest")
		}
		if CurrentSession(c).UserID() != "" {
			t.Fatalf("dangling reference should be dropped")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSession_StoreFailureIsReturned(t *testing.T) {
	e := echo.New()
	m, _ := newManager()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(loggedInCookie(t, m, "u1"))
	c := e.NewContext(req, httptest.NewRecorder())

	mw := Session(m, &stubUsers{err: context.DeadlineExceeded}, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); err == nil {
		t.Fatalf("expected error")
	}
}

// withSession runs the Session middleware and then mw around a handler that
// records whether it ran.
func withSession(t *testing.T, m *session.Manager, users *stubUsers, cookie *http.Cookie, mw echo.MiddlewareFunc) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Session(m, users, zerolog.Nop())(mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}))
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestRequireUser_RedirectsGuests(t *testing.T) {
	m, store := newManager()

	rec, called := withSession(t, m, &stubUsers{}, nil, RequireUser("You must be logged in to create a message"))

	if called {
		t.Fatalf("guest reached the handler")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/login" {
		t.Fatalf("expected 303 to /login, got %d %s", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if store.Len() != 1 {
		t.Fatalf("expected a session holding the flash")
	}
}

func TestRequireUser_Allows(t *testing.T) {
	m, _ := newManager()
	users := &stubUsers{users: map[string]*domain.User{"u1": {ID: "u1"}}}

	rec, called := withSession(t, m, users, loggedInCookie(t, m, "u1"), RequireUser("nope"))

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected handler to run, got %d", rec.Code)
	}
}

func TestRBAC_Allows(t *testing.T) {
	m, _ := newManager()
	users := &stubUsers{users: map[string]*domain.User{"a": {ID: "a", IsAdmin: true}}}

	rec, called := withSession(t, m, users, loggedInCookie(t, m, "a"), RBAC(domain.RoleAdmin))

	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	m, _ := newManager()
	users := &stubUsers{users: map[string]*domain.User{"m": {ID: "m", IsMember: true}}}

	for name, cookie := range map[string]*http.Cookie{
		"member": loggedInCookie(t, m, "m"),
		"guest":  nil,
	} {
		rec, called := withSession(t, m, users, cookie, RBAC(domain.RoleAdmin))
		if called {
			t.Fatalf("%s should not reach next handler", name)
		}
		if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/" {
			t.Fatalf("%s: expected 303 to /, got %d", name, rec.Code)
		}
	}
}
