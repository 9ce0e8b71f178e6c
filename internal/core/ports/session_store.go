package ports

import (
	"context"

	"github.com/clubhouse/members-only/internal/core/domain"
)

// SessionStore is the server-side backing for session cookies.
type SessionStore interface {
	// Load returns domain.ErrSessionNotFound for unknown or expired IDs.
	Load(ctx context.Context, id string) (*domain.Session, error)
	// Save upserts the session and refreshes its expiry.
	Save(ctx context.Context, s *domain.Session) error
	// Destroy removes the session and any pending flashes.
	Destroy(ctx context.Context, id string) error

	PushFlash(ctx context.Context, id string, f domain.Flash) error
	// DrainFlashes returns all pending flashes and clears them in one step.
	DrainFlashes(ctx context.Context, id string) ([]domain.Flash, error)
}
