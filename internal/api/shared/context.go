package shared

import (
	"context"

	"github.com/taskline/taskline-api/internal/domain"
)

// userContextKey is the private type for the authenticated-user context
// key, so no other package can collide with it.
type userContextKey struct{}

// WithUser returns a context carrying the authenticated user. Set by the
// auth middleware after credential verification.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the authenticated user from the context.
// The second return is false when no user is present, which means the
// handler was reached without the auth middleware.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*domain.User)
	return user, ok
}
