package ports

import (
	"context"

	"github.com/clubhouse/members-only/internal/core/domain"
)

// RegisterInput carries the already validated signup form.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthService registers accounts and verifies local credentials.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// UserFinder is the slice of AuthService the session middleware needs to
// expand a session's user reference.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
