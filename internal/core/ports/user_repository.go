package ports

import (
	"context"

	"github.com/clubhouse/members-only/internal/core/domain"
)

// UserRepository defines the persistence operations for club accounts.
type UserRepository interface {
	// Create inserts a user and returns it with its assigned ID.
	// A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// GrantRole sets the flag for role on the user.
	GrantRole(ctx context.Context, id string, role domain.Role) error
}
