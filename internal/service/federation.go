package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/tilworks/glossary/internal/data"
	domainauth "github.com/tilworks/glossary/internal/domain/auth"
	"github.com/tilworks/glossary/internal/domain/model"
	apperrors "github.com/tilworks/glossary/internal/errors"
	"github.com/tilworks/glossary/internal/ports"
)

// flowState names the steps of the federated login callback. The flow is
// linear and non-retrying within a request; a stale upstream token aborts it
// with a fresh redirect instead of looping.
type flowState int

const (
	stateExchange flowState = iota
	stateProfile
	stateResolve
	stateAuthenticate
	stateDone
)

// PlaceholderHasher produces a password hash that can never succeed at
// login, used when provisioning federated users.
type PlaceholderHasher interface {
	PlaceholderHash() (string, error)
}

// FederationServiceOptions groups dependencies for FederationService.
type FederationServiceOptions struct {
	Provider    ports.IdentityProvider
	Users       ports.UserRepository
	Auth        *AuthService
	Placeholder PlaceholderHasher
}

// FederationService drives login through an external identity provider:
// code exchange, profile fetch, and resolve-or-provision of the local user.
type FederationService struct {
	provider    ports.IdentityProvider
	users       ports.UserRepository
	auth        *AuthService
	placeholder PlaceholderHasher
}

// NewFederationService constructs a new FederationService.
func NewFederationService(opts FederationServiceOptions) *FederationService {
	return &FederationService{
		provider:    opts.Provider,
		users:       opts.Users,
		auth:        opts.Auth,
		placeholder: opts.Placeholder,
	}
}

// BeginLogin returns the provider authorization URL and the anti-forgery
// state the handler must persist for the callback. No local user or session
// state is created yet.
func (s *FederationService) BeginLogin() (authURL, state string, err error) {
	b := make([]byte, 32)
	if _, randErr := rand.Read(b); randErr != nil {
		return "", "", fmt.Errorf("generate state: %w", randErr)
	}
	state = base64.RawURLEncoding.EncodeToString(b)
	return s.provider.AuthCodeURL(state), state, nil
}

// CallbackResult is the terminal outcome of a callback flow. Exactly one of
// Session or Retry is meaningful: Retry is set when the upstream access
// token went stale and the browser must be sent back to the provider.
type CallbackResult struct {
	Session domainauth.Session
	User    *model.User
	Retry   bool
}

// callbackFlow carries intermediate values between state transitions.
type callbackFlow struct {
	code        string
	accessToken string
	profile     domainauth.FederatedProfile
	user        *model.User
	session     domainauth.Session
}

// Callback runs the state machine for one authorization-code callback.
// Failure kinds are typed per transition: the exchange fails with an
// upstream_auth error, the profile fetch with upstream_profile, and
// persistence problems with plain internal errors.
func (s *FederationService) Callback(ctx context.Context, code string) (*CallbackResult, error) {
	flow := &callbackFlow{code: code}

	for state := stateExchange; state != stateDone; {
		var err error
		switch state {
		case stateExchange:
			flow.accessToken, err = s.provider.Exchange(ctx, flow.code)
			state = stateProfile
		case stateProfile:
			flow.profile, err = s.provider.FetchProfile(ctx, flow.accessToken)
			if errors.Is(err, ports.ErrStaleUpstreamToken) {
				return &CallbackResult{Retry: true}, nil
			}
			state = stateResolve
		case stateResolve:
			flow.user, err = s.resolveOrProvision(ctx, flow.profile)
			state = stateAuthenticate
		case stateAuthenticate:
			flow.session, err = s.auth.AuthenticateSession(ctx, flow.user.ID)
			state = stateDone
		}
		if err != nil {
			return nil, err
		}
	}

	return &CallbackResult{Session: flow.session, User: flow.user}, nil
}

// resolveOrProvision finds the local user whose username equals the
// provider-verified email, creating one on first login. A concurrent
// first-login race on the same email degrades to looking up the row the
// winner created.
func (s *FederationService) resolveOrProvision(ctx context.Context, profile domainauth.FederatedProfile) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, profile.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, data.ErrUserNotFound) {
		return nil, fmt.Errorf("resolve federated user: %w", err)
	}

	req := model.ProvisionUserRequest{Name: profile.Name, Username: profile.Email}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	hash, err := s.placeholder.PlaceholderHash()
	if err != nil {
		return nil, fmt.Errorf("provision federated user: %w", err)
	}

	created, err := s.users.Create(ctx, ports.CreateUserParams{
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: hash,
	})
	if err == nil {
		return created, nil
	}
	if errors.Is(err, data.ErrUsernameExists) {
		// Another callback provisioned this email first; use that row.
		return s.users.GetByUsername(ctx, profile.Email)
	}
	return nil, fmt.Errorf("provision federated user: %w", err)
}
