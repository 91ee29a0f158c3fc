package dto

import (
	"time"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// CreateUserRequest payload.
type CreateUserRequest struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Password   string          `json:"password"`
	Role       domain.UserRole `json:"role"`
	Department *string         `json:"department"`
}

// UpdateUserRequest payload; absent members are left unchanged.
type UpdateUserRequest struct {
	Name       *string          `json:"name"`
	Email      *string          `json:"email"`
	Password   *string          `json:"password"`
	Role       *domain.UserRole `json:"role"`
	Department *string          `json:"department"`
	IsActive   *bool            `json:"isActive"`
}

// UserResponse renders an agent. The password hash is never exposed.
type UserResponse struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"clientId"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Role       domain.UserRole `json:"role"`
	Department *string         `json:"department"`
	IsActive   bool            `json:"isActive"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
