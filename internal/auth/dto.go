package auth

import (
	"github.com/feastlyhq/feastly-backend/internal/users"
	"github.com/feastlyhq/feastly-backend/pkg/enums"
)

// RegisterRequest contains the payload required to create an account.
type RegisterRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	Phone     *string `json:"phone,omitempty"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the expired access token plus the refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse contains the token pair and user produced by a successful
// register, login, or refresh.
type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
	Role         *enums.Role    `json:"role,omitempty"`
}

// SessionDTO is the per-request session snapshot the client rebuilds
// its auth state from. HasRole comes from the role assignment table,
// never from the profile hint.
type SessionDTO struct {
	User        *users.UserDTO `json:"user"`
	DisplayName string         `json:"display_name,omitempty"`
	AvatarURL   *string        `json:"avatar_url,omitempty"`
	Role        *enums.Role    `json:"role,omitempty"`
	HasRole     bool           `json:"has_role"`
}
