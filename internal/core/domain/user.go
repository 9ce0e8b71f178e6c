package domain

import "time"

// Role names a privilege a user can unlock with a passcode.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User models a registered club account.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsMember     bool      `json:"is_member"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasRole reports whether the flag for role is set.
func (u *User) HasRole(role Role) bool {
	if u == nil {
		return false
	}
	switch role {
	case RoleMember:
		return u.IsMember
	case RoleAdmin:
		return u.IsAdmin
	}
	return false
}

// CanSeeAuthors reports whether the user may see who wrote a message.
func (u *User) CanSeeAuthors() bool {
	return u.HasRole(RoleMember) || u.HasRole(RoleAdmin)
}
