package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/clubhouse/members-only/internal/core/domain"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, time.Hour), mr
}

func TestSessionKeys(t *testing.T) {
	if got := sessionKey("abc"); got != "session:abc" {
		t.Fatalf("unexpected session key: %s", got)
	}
	if got := flashKey("abc"); got != "session:abc:flash" {
		t.Fatalf("unexpected flash key: %s", got)
	}
}

func TestNewSessionStore_DefaultTTL(t *testing.T) {
	s := NewSessionStore(nil, 0)
	if s.ttl != defaultSessionTTL {
		t.Fatalf("expected default ttl, got %v", s.ttl)
	}
}

func TestSessionStore_SaveLoad(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	expires := time.Now().Add(time.Hour).Truncate(time.Second).UTC()

	if err := s.Save(ctx, &domain.Session{ID: "s1", UserID: "u1", ExpiresAt: expires}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ID != "s1" || got.UserID != "u1" || !got.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected session: %+v", got)
	}
	if mr.HGet(sessionKey("s1"), "user_id") != "u1" {
		t.Fatalf("expected user_id field in the session hash")
	}
	if ttl := mr.TTL(sessionKey("s1")); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("expected the session to expire within an hour, ttl=%v", ttl)
	}
}

func TestSessionStore_SaveAnonymous(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, &domain.Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.UserID != "" {
		t.Fatalf("expected anonymous session, got user %q", got.UserID)
	}
}

func TestSessionStore_LoadUnknown(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.Load(context.Background(), "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, &domain.Session{ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(time.Minute)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := s.Load(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}
}

func TestSessionStore_FlashesDrainOnce(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.PushFlash(ctx, "s1", domain.Flash{Kind: domain.FlashError, Text: "one"}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := s.PushFlash(ctx, "s1", domain.Flash{Kind: domain.FlashSuccess, Text: "two"}); err != nil {
		t.Fatalf("push: %v", err)
	}

	first, err := s.DrainFlashes(ctx, "s1")
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	want := []domain.Flash{
		{Kind: domain.FlashError, Text: "one"},
		{Kind: domain.FlashSuccess, Text: "two"},
	}
	if len(first) != len(want) || first[0] != want[0] || first[1] != want[1] {
		t.Fatalf("expected %+v in order, got %+v", want, first)
	}

	second, err := s.DrainFlashes(ctx, "s1")
	if err != nil {
		t.Fatalf("second drain: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("flashes must be read once, got %+v", second)
	}
}

func TestSessionStore_Destroy(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, &domain.Session{ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.PushFlash(ctx, "s1", domain.Flash{Kind: domain.FlashSuccess, Text: "hi"}); err != nil {
		t.Fatalf("push: %v", err)
	}

	if err := s.Destroy(ctx, "s1"); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if mr.Exists(sessionKey("s1")) || mr.Exists(flashKey("s1")) {
		t.Fatalf("expected session and flash keys removed")
	}
	if _, err := s.Load(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
