package middleware

import "context"

type contextKey string

const (
	ctxAdminID    contextKey = "admin_id"
	ctxAdminEmail contextKey = "admin_email"
)

// AdminIDFromContext returns the authenticated admin id, or "" when absent.
func AdminIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminID).(string); ok {
		return v
	}
	return ""
}

func AdminEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminEmail).(string); ok {
		return v
	}
	return ""
}

// WithAdminID injects the admin identifier into the context.
func WithAdminID(ctx context.Context, adminID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAdminID, adminID)
}
