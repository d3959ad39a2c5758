package auth

import (
	"context"

	pkgerrors "cortex/pkg/errors"
)

type contextKey string

const userContextKey contextKey = "cortex.user"

// UserContext carries the authenticated caller through the request lifecycle
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
}

// SetUserInContext stores the user context on a request context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil || user.UserID == "" {
		return nil, pkgerrors.NewUnauthorizedError("no authenticated user in context")
	}
	return user, nil
}

// HasRole reports whether the user carries the given role
func (u *UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
