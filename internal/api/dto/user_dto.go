package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-api/internal/domain"
)

// UserResponse is the wire form of an account.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	RoleID    domain.Role `json:"role_id"`
	Active    bool        `json:"active"`
	JobTitle  string      `json:"job_title"`
	CreatedAt time.Time   `json:"created_at"`
}

// UpdateRoleRequest payload.
type UpdateRoleRequest struct {
	RoleID domain.Role `json:"role_id"`
}

// UpdateProfileRequest payload; fields are optional.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	JobTitle *string `json:"job_title"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		RoleID:    user.Role,
		Active:    user.Active,
		JobTitle:  user.JobTitle,
		CreatedAt: user.CreatedAt,
	}
}

// NewUserResponses maps a user slice.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
