package domain

import "time"

// Role enumerates application-level roles for an account.
type Role int

const (
	RoleUser          Role = 1
	RoleAgent         Role = 2
	RoleAdministrator Role = 3
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r >= RoleUser && r <= RoleAdministrator
}

// DefaultJobTitle is assigned when an account is created lazily.
const DefaultJobTitle = "Employee"

// User is the application account mapped to an externally issued identity.
// Accounts are never hard-deleted; Active is toggled instead.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Active    bool
	JobTitle  string
	CreatedAt time.Time
}

// IsAdmin reports whether the account is an active administrator.
func (u *User) IsAdmin() bool {
	return u != nil && u.Active && u.Role == RoleAdministrator
}

// IsAgentOrAdmin reports whether the account is active staff.
func (u *User) IsAgentOrAdmin() bool {
	return u != nil && u.Active && (u.Role == RoleAgent || u.Role == RoleAdministrator)
}
