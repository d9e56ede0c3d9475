package domain

import "context"

type userKey struct{}

// ContextWithUser stores the requesting user id in the context.
// Host access checks read it back with UserFromContext.
func ContextWithUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserFromContext returns the requesting user id, if set.
func UserFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userKey{}).(int64)
	return id, ok
}
