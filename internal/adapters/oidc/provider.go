package oidc

// Package oidc implements the IdentityProvider port against an OIDC-capable
// OAuth2 provider (Google by default). Endpoints are discovered once at
// construction time.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/tilworks/glossary/internal/domain/auth"
	apperrors "github.com/tilworks/glossary/internal/errors"
	"github.com/tilworks/glossary/internal/ports"
	"golang.org/x/oauth2"
)

// Provider implements ports.IdentityProvider using OAuth2 with OIDC discovery.
type Provider struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// ProviderConfig holds configuration for the provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	IssuerURL    string
	Timeout      time.Duration
	HTTPClient   *http.Client // Optional, defaults to a client bounded by Timeout
}

// discoveryClaims is the subset of the discovery document we need beyond
// what go-oidc exposes directly.
type discoveryClaims struct {
	UserInfoEndpoint string `json:"userinfo_endpoint"`
}

// NewProvider discovers the issuer's endpoints and builds the OAuth2 config.
func NewProvider(ctx context.Context, cfg ProviderConfig) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if cfg.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	ctx = gooidc.ClientContext(ctx, httpClient)
	op, err := gooidc.NewProvider(ctx, strings.TrimSuffix(cfg.IssuerURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	var claims discoveryClaims
	if claimsErr := op.Claims(&claims); claimsErr != nil {
		return nil, fmt.Errorf("decode discovery document: %w", claimsErr)
	}
	if claims.UserInfoEndpoint == "" {
		return nil, errors.New("provider does not advertise a userinfo endpoint")
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
		userInfoURL: claims.UserInfoEndpoint,
		httpClient:  httpClient,
	}, nil
}

// AuthCodeURL builds the provider authorization URL for the given state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades an authorization code for an access token. Any rejection
// or timeout from the token endpoint surfaces as an upstream_auth error.
func (p *Provider) Exchange(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", apperrors.New(apperrors.ErrCodeUpstreamAuth, "authorization code is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeUpstreamAuth, "exchange authorization code")
	}
	if token.AccessToken == "" {
		return "", apperrors.New(apperrors.ErrCodeUpstreamAuth, "provider returned an empty access token")
	}
	return token.AccessToken, nil
}

// userInfo is the provider profile payload shape.
type userInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// FetchProfile retrieves the verified profile for the access token. A 401
// means the token went stale and surfaces as ports.ErrStaleUpstreamToken;
// any other non-success status is an upstream_profile error.
func (p *Provider) FetchProfile(ctx context.Context, accessToken string) (domainauth.FederatedProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return domainauth.FederatedProfile{}, apperrors.Wrap(err, apperrors.ErrCodeUpstreamProfile, "build profile request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domainauth.FederatedProfile{}, apperrors.Wrap(err, apperrors.ErrCodeUpstreamProfile, "fetch profile")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domainauth.FederatedProfile{}, ports.ErrStaleUpstreamToken
	case resp.StatusCode != http.StatusOK:
		return domainauth.FederatedProfile{}, apperrors.Newf(
			apperrors.ErrCodeUpstreamProfile, "profile endpoint returned status %d", resp.StatusCode)
	}

	var ui userInfo
	if decodeErr := json.NewDecoder(resp.Body).Decode(&ui); decodeErr != nil {
		return domainauth.FederatedProfile{}, apperrors.Wrap(decodeErr, apperrors.ErrCodeUpstreamProfile, "decode profile")
	}
	if ui.Email == "" {
		return domainauth.FederatedProfile{}, apperrors.New(apperrors.ErrCodeUpstreamProfile, "provider profile is missing a verified email")
	}

	return domainauth.FederatedProfile{Email: ui.Email, Name: ui.Name}, nil
}
