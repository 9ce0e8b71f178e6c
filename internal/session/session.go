// Package session maps the session cookie to a server-side record and
// carries the per-request identity and flash queue.
//
// The cookie holds an HS256 token whose jti is the session ID; the record
// itself lives in a ports.SessionStore. Sessions are only created when
// something needs to be stored (a flash or a login).
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clubhouse/members-only/internal/core/domain"
	"github.com/clubhouse/members-only/internal/core/ports"
)

const (
	CookieName = "clubhouse_session"
	defaultTTL = 24 * time.Hour
)

var errInvalidToken = errors.New("invalid session token")

// Options configures cookie signing and lifetime.
type Options struct {
	Secret []byte
	TTL    time.Duration
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

// Manager issues and resolves session cookies.
type Manager struct {
	store  ports.SessionStore
	secret []byte
	ttl    time.Duration
	secure bool
	newID  func() string
	now    func() time.Time
}

func NewManager(store ports.SessionStore, opts Options) *Manager {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{
		store:  store,
		secret: opts.Secret,
		ttl:    ttl,
		secure: opts.Secure,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// Load resolves the session cookie of r. A missing, forged or expired cookie
// and an unknown session all yield an anonymous session; only store failures
// are returned as errors.
func (m *Manager) Load(ctx context.Context, r *http.Request, w http.ResponseWriter) (*Session, error) {
	s := &Session{m: m, w: w}

	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return s, nil
	}
	id, err := m.parseToken(cookie.Value)
	if err != nil {
		return s, nil
	}

	rec, err := m.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return s, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	s.record = rec
	return s, nil
}

func (m *Manager) issueToken(id string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(m.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

func (m *Manager) parseToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !tkn.Valid || claims.ID == "" {
		return "", errInvalidToken
	}
	return claims.ID, nil
}

func (m *Manager) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session is the request-scoped view of a session. It is not safe for
// concurrent use; each request gets its own.
type Session struct {
	m      *Manager
	w      http.ResponseWriter
	record *domain.Session
}

// ID returns the session ID, or "" before the session is stored.
func (s *Session) ID() string {
	if s.record == nil {
		return ""
	}
	return s.record.ID
}

// UserID returns the authenticated user reference, or "" for anonymous sessions.
func (s *Session) UserID() string {
	if s.record == nil {
		return ""
	}
	return s.record.UserID
}

// AddFlash queues a notice for the next rendered page.
func (s *Session) AddFlash(ctx context.Context, kind domain.FlashKind, text string) error {
	if s.record == nil {
		if err := s.start(ctx, ""); err != nil {
			return err
		}
	}
	if err := s.m.store.PushFlash(ctx, s.record.ID, domain.Flash{Kind: kind, Text: text}); err != nil {
		return fmt.Errorf("add flash: %w", err)
	}
	return nil
}

// Flashes drains the pending notices. A second call returns none.
func (s *Session) Flashes(ctx context.Context) ([]domain.Flash, error) {
	if s.record == nil {
		return nil, nil
	}
	flashes, err := s.m.store.DrainFlashes(ctx, s.record.ID)
	if err != nil {
		return nil, fmt.Errorf("read flashes: %w", err)
	}
	return flashes, nil
}

// Login binds userID to a freshly issued session, discarding the old one.
func (s *Session) Login(ctx context.Context, userID string) error {
	if s.record != nil {
		if err := s.m.store.Destroy(ctx, s.record.ID); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		s.record = nil
	}
	return s.start(ctx, userID)
}

// Logout destroys the session and expires the cookie.
func (s *Session) Logout(ctx context.Context) error {
	if s.record == nil {
		return nil
	}
	if err := s.m.store.Destroy(ctx, s.record.ID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.record = nil
	s.m.setCookie(s.w, "", -1)
	return nil
}

// Forget drops the user reference but keeps the session and its flashes.
func (s *Session) Forget(ctx context.Context) error {
	if s.record == nil || s.record.UserID == "" {
		return nil
	}
	s.record.UserID = ""
	if err := s.m.store.Save(ctx, s.record); err != nil {
		return fmt.Errorf("forget user: %w", err)
	}
	return nil
}

func (s *Session) start(ctx context.Context, userID string) error {
	rec := &domain.Session{
		ID:        s.m.newID(),
		UserID:    userID,
		ExpiresAt: s.m.now().Add(s.m.ttl).UTC(),
	}
	if err := s.m.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	token, err := s.m.issueToken(rec.ID, rec.ExpiresAt)
	if err != nil {
		return fmt.Errorf("start session: sign: %w", err)
	}
	s.m.setCookie(s.w, token, int(s.m.ttl.Seconds()))
	s.record = rec
	return nil
}
