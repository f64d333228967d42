package httpx

import "context"

type ctxKey string

// CtxKeyUserID holds the authenticated user's ID once the session
// middleware has resolved the caller.
const CtxKeyUserID ctxKey = "user_id"

// WithUserID records the authenticated user on ctx for per-user rate
// limiting and logging.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, userID)
}

// UserIDFromContext returns the user set by WithUserID, or "".
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
