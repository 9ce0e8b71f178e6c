package ports

import (
	"context"

	"github.com/clubhouse/members-only/internal/core/domain"
)

// MessageService defines the use cases of the message board.
// Update and Delete require an admin actor and return domain.ErrForbidden otherwise.
type MessageService interface {
	Create(ctx context.Context, authorID, title, text string) (*domain.Message, error)
	List(ctx context.Context) ([]*domain.Message, error)
	Get(ctx context.Context, id string) (*domain.Message, error)
	Update(ctx context.Context, actor *domain.User, id, title, text string) (*domain.Message, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}
