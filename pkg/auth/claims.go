package auth

import (
	"github.com/feastlyhq/feastly-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
// Role is nil until the user has picked one.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   *enums.Role
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID   `json:"user_id"`
	Role   *enums.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}
