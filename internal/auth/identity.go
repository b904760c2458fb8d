package auth

import (
	"context"

	"github.com/ashishpal07/qp-assessment/internal/models"
)

// Identity is the authenticated caller, carried on the request context as a
// typed value rather than an untyped request attribute.
type Identity struct {
	UserID int64
	Role   string
}

func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
