package middleware

import "context"

type contextKey string

const ctxRegisterID contextKey = "register_id"

// WithRegisterID stores the register identifier for downstream handlers and
// the idempotency scope.
func WithRegisterID(ctx context.Context, registerID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRegisterID, registerID)
}

func RegisterIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRegisterID).(string); ok {
		return v
	}
	return ""
}
