package httpx

import (
	"context"
	"net/http"

	"github.com/tilworks/glossary/internal/domain/model"
)

// userKey is an unexported context key type for the authenticated user.
type userKey struct{}

// SetUserInContext stores the authenticated user in the context.
func SetUserInContext(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext retrieves the authenticated user from the request context.
// Returns nil when no auth middleware ran.
func UserFromContext(ctx context.Context) *model.User {
	if val := ctx.Value(userKey{}); val != nil {
		if user, ok := val.(*model.User); ok {
			return user
		}
	}
	return nil
}

// SessionIDFromRequest returns the session id cookie value, or empty.
func SessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
