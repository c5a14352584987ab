package dto

import "github.com/spec-kit/helpdesk/internal/domain"

// UpdateUserRequest payload. Empty fields keep the stored value; a non-empty
// Password triggers a rehash.
type UpdateUserRequest struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	EmployeeID string      `json:"employeeID"`
	Department string      `json:"department"`
	Branch     string      `json:"branch"`
	Role       domain.Role `json:"role"`
	Password   string      `json:"password"`
}

// ApprovalRequest payload for the super admin review action.
type ApprovalRequest struct {
	ApprovalStatus domain.ApprovalStatus `json:"approval_status"`
}

// UserListResponse wraps the account listing.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewUserResponses maps a slice of domain users.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *NewUserResponse(&u))
	}
	return out
}
