// Package dto defines the wire shapes exchanged with the frontend. Field
// names match the existing client exactly; they ride inside the encrypted
// payload envelope, so both peers must agree byte-for-byte.
package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	EmployeeID string      `json:"employeeID"`
	Department string      `json:"department"`
	Branch     string      `json:"branch"`
	Role       domain.Role `json:"role"`
}

// LoginRequest payload.
type LoginRequest struct {
	EmployeeID string `json:"employeeID"`
	Password   string `json:"password"`
}

// UserResponse is the account shape returned to the client, never including
// the password hash.
type UserResponse struct {
	ID             int64                 `json:"id"`
	Name           string                `json:"name"`
	Email          string                `json:"email"`
	EmployeeID     string                `json:"employeeID"`
	Department     string                `json:"department"`
	Branch         string                `json:"branch"`
	Role           domain.Role           `json:"role"`
	ApprovalStatus domain.ApprovalStatus `json:"approval_status"`
}

// AuthResponse bundles a message, token and the account.
type AuthResponse struct {
	Message   string        `json:"message"`
	Token     string        `json:"token,omitempty"`
	ExpiresAt *time.Time    `json:"expiresAt,omitempty"`
	User      *UserResponse `json:"user,omitempty"`
}

// NewUserResponse maps a domain user onto the wire shape.
func NewUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		EmployeeID:     u.EmployeeID,
		Department:     u.Department,
		Branch:         u.Branch,
		Role:           u.Role,
		ApprovalStatus: u.ApprovalStatus,
	}
}
