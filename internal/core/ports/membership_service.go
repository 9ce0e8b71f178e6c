package ports

import "context"

// MembershipService unlocks roles with shared passcodes.
type MembershipService interface {
	GrantMember(ctx context.Context, userID, passcode string) error
	GrantAdmin(ctx context.Context, userID, passcode string) error
}
