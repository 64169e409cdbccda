package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tilworks/glossary/internal/data"
	domainauth "github.com/tilworks/glossary/internal/domain/auth"
	"github.com/tilworks/glossary/internal/domain/model"
	apperrors "github.com/tilworks/glossary/internal/errors"
	"github.com/tilworks/glossary/internal/ports"
)

const tokenEntropyBytes = 16

// dummyPasswordHash is a bcrypt hash of random material. When a login names
// an unknown user the verifier still runs against it, so the response time
// does not reveal whether the username exists.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users      ports.UserRepository
	Tokens     ports.TokenRepository
	Sessions   ports.SessionStore
	Verifier   ports.CredentialVerifier
	SessionTTL time.Duration
}

// AuthService orchestrates credential login, bearer-token issuance and
// resolution, and browser-session lifecycle.
type AuthService struct {
	users      ports.UserRepository
	tokens     ports.TokenRepository
	sessions   ports.SessionStore
	verifier   ports.CredentialVerifier
	sessionTTL time.Duration
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{
		users:      opts.Users,
		tokens:     opts.Tokens,
		sessions:   opts.Sessions,
		verifier:   opts.Verifier,
		sessionTTL: ttl,
	}
}

// Login verifies a username/password pair and issues a fresh bearer token.
// Unknown usernames and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Token, error) {
	user, err := s.verifyCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.IssueToken(ctx, user)
}

// IssueToken generates a random bearer token and persists it bound to the user.
func (s *AuthService) IssueToken(ctx context.Context, user *model.User) (*model.Token, error) {
	b := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	token, err := s.tokens.Insert(ctx, base64.StdEncoding.EncodeToString(b), user.ID)
	if err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}
	return token, nil
}

// ResolveToken returns the user owning a bearer token. Unknown or malformed
// values yield a token_invalid outcome, never an internal error.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	user, err := s.tokens.ResolveUser(ctx, token)
	if err != nil {
		if errors.Is(err, data.ErrTokenNotFound) {
			return nil, apperrors.TokenInvalid()
		}
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	return user, nil
}

// RevokeToken invalidates a bearer token. Revocation is immediate and
// idempotent; revoking an unknown value succeeds.
func (s *AuthService) RevokeToken(ctx context.Context, token string) error {
	if err := s.tokens.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// LoginSession verifies credentials and binds a fresh session to the user.
func (s *AuthService) LoginSession(ctx context.Context, username, password string) (domainauth.Session, error) {
	user, err := s.verifyCredentials(ctx, username, password)
	if err != nil {
		return domainauth.Session{}, err
	}
	return s.AuthenticateSession(ctx, user.ID)
}

// AuthenticateSession creates a session bound to the user id. Subsequent
// requests carrying the session id resolve as that user.
func (s *AuthService) AuthenticateSession(ctx context.Context, userID string) (domainauth.Session, error) {
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// SessionUser resolves the user bound to a session id. Missing, expired, or
// anonymous sessions yield a session_unauthenticated outcome.
func (s *AuthService) SessionUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, apperrors.SessionUnauthenticated()
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeSessionUnauthenticated, "no authenticated session")
		}
		// A store fault must not read as an anonymous session.
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !sess.IsAuthenticated() {
		return nil, apperrors.SessionUnauthenticated()
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, apperrors.SessionUnauthenticated()
		}
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return user, nil
}

// UnauthenticateSession clears the session's identity binding. After this
// call the session resolves to no user.
func (s *AuthService) UnauthenticateSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// verifyCredentials loads the user and checks the password. The error is
// identical for unknown usernames and wrong passwords, and the hash check
// runs either way so timing does not differ.
func (s *AuthService) verifyCredentials(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			s.verifier.Verify(password, dummyPasswordHash)
			return nil, apperrors.InvalidCredentials()
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !s.verifier.Verify(password, user.PasswordHash) {
		return nil, apperrors.InvalidCredentials()
	}
	return user, nil
}
