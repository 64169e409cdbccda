package httpx

import (
	"log/slog"
	"net/http"

	"github.com/tilworks/glossary/internal/ports"
	"github.com/tilworks/glossary/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       *service.AuthService
	Federation *service.FederationService
	Users      *service.UserService
	Acronyms   *service.AcronymService
	Categories *service.CategoryService
	CSRF       ports.CSRFGuard

	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHandlers := &AuthHandlers{
		Auth:         services.Auth,
		Federation:   services.Federation,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	}
	csrfHandlers := &CSRFHandlers{Guard: services.CSRF, CookieDomain: services.CookieDomain}

	registerUserRoutes(mux, &UserHandlers{Svc: services.Users}, services.Auth)
	registerAcronymRoutes(mux, &AcronymHandlers{Svc: services.Acronyms, Users: services.Users}, services.Auth)
	registerCategoryRoutes(mux, &CategoryHandlers{Svc: services.Categories}, services.Auth)
	registerAuthRoutes(mux, authHandlers, csrfHandlers, services.CSRF)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return Logging(logger)(Recover(logger)(mux))
}

// registerAuthRoutes wires token and session auth endpoints. Session mutations
// go through the single-use anti-forgery guard.
func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, csrf *CSRFHandlers, guard ports.CSRFGuard) {
	requireCSRF := RequireCSRF(guard)

	mux.Handle("POST /api/login", http.HandlerFunc(h.TokenLogin))
	mux.Handle("POST /api/logout", http.HandlerFunc(h.TokenLogout))

	mux.Handle("GET /auth/csrf", http.HandlerFunc(csrf.Issue))
	mux.Handle("POST /auth/login", requireCSRF(http.HandlerFunc(h.SessionLogin)))
	mux.Handle("POST /auth/logout", requireCSRF(http.HandlerFunc(h.SessionLogout)))
	mux.Handle("GET /auth/status", http.HandlerFunc(h.Status))

	mux.Handle("GET /auth/google", http.HandlerFunc(h.FederatedLogin))
	mux.Handle("GET /auth/google/callback", http.HandlerFunc(h.FederatedCallback))
}
