package ports

import (
	"context"

	"github.com/clubhouse/members-only/internal/core/domain"
)

// MessageRepository defines the persistence operations for board messages.
// Reads resolve the author; unknown or malformed IDs yield domain.ErrMessageNotFound.
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) (*domain.Message, error)
	List(ctx context.Context) ([]*domain.Message, error)
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	// Update persists title, text, edited and modified_at of an existing message.
	Update(ctx context.Context, m *domain.Message) error
	Delete(ctx context.Context, id string) error
}
