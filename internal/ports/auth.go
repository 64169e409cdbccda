package ports

// Package ports defines interfaces (hexagonal ports) for auth and storage
// behavior. Implementations live in internal/adapters and internal/data;
// orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/tilworks/glossary/internal/domain/auth"
)

// ErrStaleUpstreamToken is returned by FetchProfile when the provider
// rejects the access token as no longer valid (HTTP 401). The caller
// restarts the flow by re-issuing the provider redirect.
var ErrStaleUpstreamToken = errors.New("upstream access token is stale")

// ErrSessionNotFound is returned by SessionStore.Get for unknown or expired
// session ids. Callers treat it as an unauthenticated session; any other Get
// error is a store fault and must not read as anonymous.
var ErrSessionNotFound = errors.New("session not found")

// CredentialVerifier hashes and verifies passwords. Pure, no I/O. Verify
// fails closed: any backend error reads as a failed verification.
type CredentialVerifier interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// SessionStore persists and retrieves browser sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// CSRFGuard mints and validates single-use anti-forgery tokens bound to a
// session. Mint overwrites any previous unconsumed token for the session.
// Verify consumes the stored token regardless of the boolean outcome, so a
// replayed value always fails after first use.
type CSRFGuard interface {
	Mint(ctx context.Context, sessionID string) (string, error)
	Verify(ctx context.Context, sessionID, supplied string) (bool, error)
}

// IdentityProvider drives the federated login exchange against an upstream
// identity provider. Exchange failures carry the upstream_auth error code;
// profile failures carry upstream_profile, except a stale access token which
// surfaces as ErrStaleUpstreamToken so the caller can re-issue the redirect.
type IdentityProvider interface {
	// AuthCodeURL builds the provider authorization URL for the given
	// anti-forgery state. No local state is created.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for an upstream access token.
	Exchange(ctx context.Context, code string) (accessToken string, err error)

	// FetchProfile retrieves the verified profile for an access token.
	FetchProfile(ctx context.Context, accessToken string) (domainauth.FederatedProfile, error)
}
