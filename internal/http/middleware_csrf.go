package httpx

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"

	apperrors "github.com/tilworks/glossary/internal/errors"
	"github.com/tilworks/glossary/internal/ports"
)

const (
	// DefaultCSRFHeaderName is the header checked for the anti-forgery token.
	DefaultCSRFHeaderName = "X-Csrf-Token"
	// DefaultCSRFFieldName is the form field checked for the anti-forgery token.
	DefaultCSRFFieldName = "csrf_token"
	// csrfScopeCookieName identifies anonymous visitors so a token minted
	// before login still binds to exactly one browser.
	csrfScopeCookieName = "csrf_sid"
)

// CSRFHandlers issues per-session single-use anti-forgery tokens. Each mint
// replaces the session's previous token; each verify consumes it.
type CSRFHandlers struct {
	Guard        ports.CSRFGuard
	CookieDomain string
}

// Issue mints a fresh token bound to the caller's session scope.
// GET /auth/csrf.
func (h *CSRFHandlers) Issue(w http.ResponseWriter, r *http.Request) {
	scope := csrfScope(r)
	if scope == "" {
		var err error
		scope, err = newCSRFScope()
		if err != nil {
			WriteAppError(w, apperrors.Wrap(err, apperrors.ErrCodeInternal, "mint anti-forgery token"))
			return
		}
		setCSRFScopeCookie(w, r, h.CookieDomain, scope)
	}

	token, err := h.Guard.Mint(r.Context(), scope)
	if err != nil {
		WriteAppError(w, apperrors.Wrap(err, apperrors.ErrCodeInternal, "mint anti-forgery token"))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"csrf_token": token})
}

// RequireCSRF returns a middleware that enforces the single-use anti-forgery
// token on state-changing requests. Safe methods pass through. The submitted
// token is consumed whether or not it matches, so a failed attempt cannot be
// replayed.
func RequireCSRF(guard ports.CSRFGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requiresCSRFValidation(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			scope := csrfScope(r)
			token := submittedCSRFToken(r)
			if scope == "" || token == "" {
				WriteAppError(w, apperrors.CSRFMismatch())
				return
			}

			ok, err := guard.Verify(r.Context(), scope, token)
			if err != nil {
				WriteAppError(w, apperrors.Wrap(err, apperrors.ErrCodeInternal, "verify anti-forgery token"))
				return
			}
			if !ok {
				WriteAppError(w, apperrors.CSRFMismatch())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requiresCSRFValidation returns true if the HTTP method requires CSRF validation.
// Safe methods (GET, HEAD, OPTIONS, TRACE) are exempt.
func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// csrfScope identifies the browser the token is bound to: the authenticated
// session when present, otherwise the anonymous scope cookie.
func csrfScope(r *http.Request) string {
	if id := SessionIDFromRequest(r); id != "" {
		return id
	}
	cookie, err := r.Cookie(csrfScopeCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// submittedCSRFToken reads the token from the header, falling back to the
// form field for form-encoded submissions.
func submittedCSRFToken(r *http.Request) string {
	if token := r.Header.Get(DefaultCSRFHeaderName); token != "" {
		return token
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return ""
		}
		return r.FormValue(DefaultCSRFFieldName)
	}
	return ""
}

func newCSRFScope() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func setCSRFScopeCookie(w http.ResponseWriter, r *http.Request, domain, scope string) {
	http.SetCookie(w, &http.Cookie{
		Name:     csrfScopeCookieName,
		Value:    scope,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   3600 * 12,
	})
}

// isSecureRequest checks whether the request arrived over HTTPS, accounting
// for proxies.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
