package config

import "time"

const minSessionTTL = time.Minute

// OAuthConfig contains the OAuth2 client configuration for federated login.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/google/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	// IssuerURL is the OIDC issuer used for endpoint discovery; defaults to Google.
	IssuerURL string `env:"ISSUER_URL" envDefault:"https://accounts.google.com"`
	// Timeout bounds every upstream call (code exchange, profile fetch).
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// OAuth configuration for the federated login flow.
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// SessionTTL is how long a browser session stays valid.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// SeedAdmin creates the dev admin user at startup when true.
	SeedAdmin bool `env:"SEED_ADMIN" envDefault:"false"`

	// SeedAdminPassword is the password for the seeded admin user.
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"password"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL < minSessionTTL {
		a.SessionTTL = minSessionTTL
	}
	if a.OAuth.Timeout <= 0 {
		a.OAuth.Timeout = 30 * time.Second
	}
}
