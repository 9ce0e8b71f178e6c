package session

import (
	"context"
	"sync"
	"time"

	"github.com/clubhouse/members-only/internal/core/domain"
)

// MemoryStore is an in-process ports.SessionStore for single-instance
// development setups and tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	flashes  map[string][]domain.Flash
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]domain.Session),
		flashes:  make(map[string][]domain.Flash),
		now:      time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.now().After(rec.ExpiresAt) {
		delete(s.sessions, id)
		delete(s.flashes, id)
		return nil, domain.ErrSessionNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) Save(_ context.Context, rec *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	delete(s.flashes, id)
	return nil
}

func (s *MemoryStore) PushFlash(_ context.Context, id string, f domain.Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flashes[id] = append(s.flashes[id], f)
	return nil
}

func (s *MemoryStore) DrainFlashes(_ context.Context, id string) ([]domain.Flash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.flashes[id]
	delete(s.flashes, id)
	return out, nil
}

// Len reports the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
