package auth

import "context"

type contextKey string

const userUIDContextKey contextKey = "user-uid"

// ContextWithUserUID stores the resolved uid of the authenticated caller.
func ContextWithUserUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userUIDContextKey, uid)
}

// UserUIDFromContext returns the authenticated caller's uid. All aggregation
// calls require a resolved identity, so handlers treat a missing uid as a
// precondition failure before doing any I/O.
func UserUIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userUIDContextKey).(string)
	return uid, ok && uid != ""
}
