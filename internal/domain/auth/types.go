package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Session is the server-side record persisted for a browser client. It holds
// the authenticated user's id and nothing else sensitive; an empty UserID
// means the session is anonymous.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAuthenticated reports whether the session is bound to a user.
func (s Session) IsAuthenticated() bool { return s.UserID != "" }

// FederatedProfile is the transient identity returned by the upstream
// provider. It is never persisted; it only resolves or provisions a local
// user whose username equals the provider-verified email.
type FederatedProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
