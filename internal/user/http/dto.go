package http

import (
	"time"

	"github.com/nexcharge/nexcharge-backend/internal/pkg/request"
	"github.com/nexcharge/nexcharge-backend/internal/user"
)

// ListUsersRequest defines query parameters for listing users.
type ListUsersRequest struct {
	request.ListParams
	Role     string `form:"role" binding:"omitempty,oneof=backoffice operator owner"`
	IsActive *bool  `form:"is_active"`
}

// CreateUserRequest is the payload for POST /v1/users (back office only).
type CreateUserRequest struct {
	NIC         string `json:"nic" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role" binding:"required,oneof=backoffice operator owner"`
}

// SetStatusRequest is the payload for PATCH /v1/users/:nic/status.
type SetStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// UserResponse is the shape of user data returned in API responses.
type UserResponse struct {
	ID          string     `json:"id"`
	NIC         string     `json:"nic"`
	Email       string     `json:"email"`
	DisplayName *string    `json:"display_name,omitempty"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		NIC:         u.NIC.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
