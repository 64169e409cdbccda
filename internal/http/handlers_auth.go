package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/tilworks/glossary/internal/domain/auth"
	"github.com/tilworks/glossary/internal/domain/model"
	apperrors "github.com/tilworks/glossary/internal/errors"
	"github.com/tilworks/glossary/internal/service"
)

// AuthServiceInterface defines the auth operations the handlers need.
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (*model.Token, error)
	RevokeToken(ctx context.Context, token string) error
	LoginSession(ctx context.Context, username, password string) (domainauth.Session, error)
	UnauthenticateSession(ctx context.Context, sessionID string) error
	SessionUser(ctx context.Context, sessionID string) (*model.User, error)
}

// FederationServiceInterface defines the federated-login operations the
// handlers need.
type FederationServiceInterface interface {
	BeginLogin() (authURL, state string, err error)
	Callback(ctx context.Context, code string) (*service.CallbackResult, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Auth         AuthServiceInterface
	Federation   FederationServiceInterface
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// TokenLogin exchanges basic-auth credentials for a fresh bearer token.
// POST /api/login.
func (h *AuthHandlers) TokenLogin(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok {
		WriteAppError(w, apperrors.InvalidCredentials())
		return
	}

	token, err := h.Auth.Login(r.Context(), username, password)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, token)
}

// TokenLogout revokes the bearer token carried by the request.
// POST /api/logout.
func (h *AuthHandlers) TokenLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		WriteAppError(w, apperrors.TokenInvalid())
		return
	}

	if err := h.Auth.RevokeToken(r.Context(), token); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sessionLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionLogin verifies credentials and binds a fresh browser session.
// POST /auth/login.
func (h *AuthHandlers) SessionLogin(w http.ResponseWriter, r *http.Request) {
	var req sessionLoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if !DecodeJSON(w, r, &req) {
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
			return
		}
		req.Username = r.FormValue("username")
		req.Password = r.FormValue("password")
	}

	sess, err := h.Auth.LoginSession(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.setSessionCookie(w, r, sess)
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"expires_at":    sess.ExpiresAt,
	})
}

// SessionLogout clears the session's identity binding and the cookie.
// POST /auth/logout.
func (h *AuthHandlers) SessionLogout(w http.ResponseWriter, r *http.Request) {
	if sessionID := SessionIDFromRequest(r); sessionID != "" {
		if err := h.Auth.UnauthenticateSession(r.Context(), sessionID); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}

	h.clearCookie(w, r, sessionCookieName)
	w.WriteHeader(http.StatusNoContent)
}

// Status returns the current session's authentication state.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	user, err := h.Auth.SessionUser(r.Context(), SessionIDFromRequest(r))
	if err != nil {
		if apperrors.IsSessionUnauthenticated(err) {
			WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
			return
		}
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          user.Public(),
	})
}

// FederatedLogin starts the provider login flow.
// GET /auth/google.
func (h *AuthHandlers) FederatedLogin(w http.ResponseWriter, r *http.Request) {
	h.redirectToProvider(w, r)
}

// FederatedCallback completes the provider login flow.
// GET /auth/google/callback?code=<code>&state=<state>.
func (h *AuthHandlers) FederatedCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_code",
			Err:     errors.New("authorization code is required"),
		})
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || state == "" || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}

	result, err := h.Federation.Callback(r.Context(), code)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	// The provider reported the access token stale. Send the browser back
	// through authorization rather than failing the login.
	if result.Retry {
		h.redirectToProvider(w, r)
		return
	}

	h.setSessionCookie(w, r, result.Session)
	h.clearCookie(w, r, "oauth_state")
	http.Redirect(w, r, "/", http.StatusFound)
}

// redirectToProvider begins a fresh authorization round trip, persisting the
// anti-forgery state in a short-lived cookie.
func (h *AuthHandlers) redirectToProvider(w http.ResponseWriter, r *http.Request) {
	authURL, state, err := h.Federation.BeginLogin()
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     err,
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})
	http.Redirect(w, r, authURL, http.StatusFound)
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// clearCookie clears a cookie by setting it to expire immediately.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
