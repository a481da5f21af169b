package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/threadline/threadline-backend/api/responses"
	pkgAuth "github.com/threadline/threadline-backend/pkg/auth"
	"github.com/threadline/threadline-backend/pkg/config"
	pkgerrors "github.com/threadline/threadline-backend/pkg/errors"
	"github.com/threadline/threadline-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the admin identity.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			adminID := claims.AdminID.String()
			ctx := context.WithValue(r.Context(), ctxAdminID, adminID)
			if claims.Email != "" {
				ctx = context.WithValue(ctx, ctxAdminEmail, claims.Email)
			}
			if logg != nil {
				ctx = logg.WithAdminID(ctx, adminID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
