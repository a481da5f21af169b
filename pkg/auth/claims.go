package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims represents the typed JWT presented by admins.
type AccessTokenClaims struct {
	AdminID uuid.UUID `json:"admin_id"`
	Email   string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}
