package domain

import "time"

// Role enumerates account privilege levels.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// AdminEquivalent reports whether the role receives admin notifications and
// may manage tickets beyond its own.
func (r Role) AdminEquivalent() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// ApprovalStatus represents the account review state set by a super admin.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Reject"
)

// User is the domain model for accounts, both employees and admins.
type User struct {
	ID             int64
	Name           string
	Email          string
	EmployeeID     string
	Department     string
	Branch         string
	Role           Role
	ApprovalStatus ApprovalStatus
	PasswordHash   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
