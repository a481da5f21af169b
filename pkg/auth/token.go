package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/threadline/threadline-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

var errMissingSecret = errors.New("jwt secret is required")

// ParseAccessToken verifies signature, issuer and expiry, allowing
// cfg.Leeway of clock skew. The subject must name the same admin as the
// admin_id claim.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, errMissingSecret
	}

	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (any, error) { return []byte(cfg.Secret), nil },
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	)
	if err != nil {
		return nil, err
	}
	if claims.AdminID == uuid.Nil {
		return nil, fmt.Errorf("token missing admin id")
	}
	if claims.Subject != "" && claims.Subject != claims.AdminID.String() {
		return nil, fmt.Errorf("token subject does not match admin id")
	}
	return claims, nil
}
