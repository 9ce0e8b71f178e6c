package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clubhouse/members-only/internal/core/domain"
	"github.com/clubhouse/members-only/internal/core/ports"
)

type MessageService struct {
	messages ports.MessageRepository
	users    ports.UserRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewMessageService(messages ports.MessageRepository, users ports.UserRepository, log zerolog.Logger) *MessageService {
	return &MessageService{messages: messages, users: users, log: log, now: time.Now}
}

// Create stores a new message. The author must exist; title and text are
// sanitised before they reach the store.
func (s *MessageService) Create(ctx context.Context, authorID, title, text string) (*domain.Message, error) {
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("create message: resolve author: %w", err)
	}

	m := domain.NewMessage(sanitizeText(title), sanitizeText(text), author.ID, s.now())
	created, err := s.messages.Create(ctx, m)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", author.ID).Msg("failed to create message")
		return nil, fmt.Errorf("create message: %w", err)
	}
	created.Author = &domain.Author{ID: author.ID, FirstName: author.FirstName, LastName: author.LastName}

	s.log.Info().Str("message_id", created.ID).Str("user_id", author.ID).Msg("message created")
	return created, nil
}

func (s *MessageService) List(ctx context.Context) ([]*domain.Message, error) {
	return s.messages.List(ctx)
}

func (s *MessageService) Get(ctx context.Context, id string) (*domain.Message, error) {
	return s.messages.FindByID(ctx, id)
}

// Update revises an existing message on behalf of an admin.
func (s *MessageService) Update(ctx context.Context, actor *domain.User, id, title, text string) (*domain.Message, error) {
	if !actor.HasRole(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	m, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.Revise(sanitizeText(title), sanitizeText(text), s.now())
	if err := s.messages.Update(ctx, m); err != nil {
		return nil, err
	}

	s.log.Info().Str("message_id", m.ID).Str("user_id", actor.ID).Msg("message updated")
	return m, nil
}

// Delete removes a message on behalf of an admin.
func (s *MessageService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if !actor.HasRole(domain.RoleAdmin) {
		return domain.ErrForbidden
	}

	if err := s.messages.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("message_id", id).Str("user_id", actor.ID).Msg("message deleted")
	return nil
}
