// Package authctx carries the authenticated user through the request
// context as an explicit value. There is no ambient "current user"
// state anywhere in the process.
package authctx

import (
	"context"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
)

type ctxKey struct{}

// WithUser returns a copy of ctx with the authenticated user attached.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// FromContext extracts the authenticated user from ctx. Returns nil if
// the request did not pass the auth middleware.
func FromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(ctxKey{}).(*domain.User)
	return user
}
