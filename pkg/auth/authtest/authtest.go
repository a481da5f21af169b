// Package authtest signs admin tokens for handler and middleware tests.
package authtest

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/threadline/threadline-backend/pkg/auth"
	"github.com/threadline/threadline-backend/pkg/config"
)

// Payload is the data placed in a minted token.
type Payload struct {
	AdminID uuid.UUID
	Email   string
	JTI     string
}

// Mint signs an HS256 admin token valid for cfg.ExpirationMinutes from now.
func Mint(cfg config.JWTConfig, now time.Time, payload Payload) (string, error) {
	switch {
	case cfg.Secret == "":
		return "", errors.New("jwt secret is required")
	case cfg.Issuer == "":
		return "", errors.New("jwt issuer is required")
	case cfg.ExpirationMinutes <= 0:
		return "", errors.New("jwt expiration minutes must be positive")
	case payload.AdminID == uuid.Nil:
		return "", errors.New("admin id is required")
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}
	ttl := time.Duration(cfg.ExpirationMinutes) * time.Minute

	claims := auth.AccessTokenClaims{
		AdminID: payload.AdminID,
		Email:   strings.ToLower(strings.TrimSpace(payload.Email)),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   payload.AdminID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// MustMint is Mint for tests; it fails t on error.
func MustMint(t testing.TB, cfg config.JWTConfig, now time.Time, payload Payload) string {
	t.Helper()
	token, err := Mint(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
