package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clubhouse/members-only/internal/core/domain"
	"github.com/clubhouse/members-only/internal/core/ports"
)

// Passcodes are the shared secrets that unlock each role.
type Passcodes struct {
	Member string
	Admin  string
}

type MembershipService struct {
	repo      ports.UserRepository
	passcodes Passcodes
	log       zerolog.Logger
}

func NewMembershipService(repo ports.UserRepository, passcodes Passcodes, log zerolog.Logger) *MembershipService {
	return &MembershipService{repo: repo, passcodes: passcodes, log: log}
}

func (s *MembershipService) GrantMember(ctx context.Context, userID, passcode string) error {
	return s.grant(ctx, userID, domain.RoleMember, s.passcodes.Member, passcode)
}

func (s *MembershipService) GrantAdmin(ctx context.Context, userID, passcode string) error {
	return s.grant(ctx, userID, domain.RoleAdmin, s.passcodes.Admin, passcode)
}

func (s *MembershipService) grant(ctx context.Context, userID string, role domain.Role, want, got string) error {
	if !passcodeMatches(want, got) {
		s.log.Warn().Str("user_id", userID).Str("role", string(role)).Msg("incorrect passcode")
		return domain.ErrIncorrectPasscode
	}

	if err := s.repo.GrantRole(ctx, userID, role); err != nil {
		return fmt.Errorf("grant %s: %w", role, err)
	}

	s.log.Info().Str("user_id", userID).Str("role", string(role)).Msg("role granted")
	return nil
}

// An unset passcode never matches.
func passcodeMatches(want, got string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
