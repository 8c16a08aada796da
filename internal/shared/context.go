package shared

import "context"

type principalContextKey struct{}

// ContextWithPrincipal stores the authenticated user id in context.
func ContextWithPrincipal(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, principalContextKey{}, userID)
}

// PrincipalFromContext extracts the authenticated user id, zero when absent.
func PrincipalFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(principalContextKey{}).(int64)
	return id
}
