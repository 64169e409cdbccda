package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/tilworks/glossary/config"
	"github.com/tilworks/glossary/internal/adapters/bcrypthash"
	"github.com/tilworks/glossary/internal/adapters/oidc"
	"github.com/tilworks/glossary/internal/adapters/redis"
	"github.com/tilworks/glossary/internal/data"
	httpx "github.com/tilworks/glossary/internal/http"
	"github.com/tilworks/glossary/internal/service"
)

// ServiceDeps holds shared infrastructure for service construction.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient goredis.UniversalClient
	Logger      *slog.Logger
}

// Services holds the wired application services and the HTTP handler.
type Services struct {
	Auth       *service.AuthService
	Federation *service.FederationService
	Users      *service.UserService
	Acronyms   *service.AcronymService
	Categories *service.CategoryService
	Router     http.Handler
}

// NewServices wires repositories, adapters, and services. The context is
// used for identity-provider endpoint discovery.
func NewServices(ctx context.Context, deps *ServiceDeps) (*Services, error) {
	cfg := deps.Config

	userRepo := data.NewUserRepo(deps.DB)
	tokenRepo := data.NewTokenRepo(deps.DB)
	acronymRepo := data.NewAcronymRepo(deps.DB)
	categoryRepo := data.NewCategoryRepo(deps.DB)

	hasher := bcrypthash.NewHasher()
	sessionStore := redis.NewSessionStore(deps.RedisClient)
	csrfStore := redis.NewCSRFStore(deps.RedisClient)

	provider, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
		ClientID:     cfg.Auth.OAuth.ClientID,
		ClientSecret: cfg.Auth.OAuth.ClientSecret,
		RedirectURL:  cfg.Auth.OAuth.RedirectURL,
		Scope:        cfg.Auth.OAuth.Scope,
		IssuerURL:    cfg.Auth.OAuth.IssuerURL,
		Timeout:      cfg.Auth.OAuth.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init identity provider: %w", err)
	}

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Users:      userRepo,
		Tokens:     tokenRepo,
		Sessions:   sessionStore,
		Verifier:   hasher,
		SessionTTL: cfg.Auth.SessionTTL,
	})
	federationSvc := service.NewFederationService(service.FederationServiceOptions{
		Provider:    provider,
		Users:       userRepo,
		Auth:        authSvc,
		Placeholder: hasher,
	})
	userSvc := service.NewUserService(userRepo, hasher)
	reconciler := service.NewReconciler(categoryRepo)
	acronymSvc := service.NewAcronymService(service.AcronymServiceOptions{
		Acronyms:   acronymRepo,
		Categories: categoryRepo,
		Reconciler: reconciler,
	})
	categorySvc := service.NewCategoryService(categoryRepo, acronymRepo)

	router := httpx.NewRouter(httpx.RouterServices{
		Auth:         authSvc,
		Federation:   federationSvc,
		Users:        userSvc,
		Acronyms:     acronymSvc,
		Categories:   categorySvc,
		CSRF:         csrfStore,
		CookieDomain: cfg.HTTP.CookieDomain,
		Logger:       deps.Logger,
	})

	return &Services{
		Auth:       authSvc,
		Federation: federationSvc,
		Users:      userSvc,
		Acronyms:   acronymSvc,
		Categories: categorySvc,
		Router:     router,
	}, nil
}

// RunHTTPServer serves the handler until the context is canceled or a
// termination signal arrives, then shuts down gracefully.
func RunHTTPServer(ctx context.Context, cfg *config.AppConfig, handler http.Handler, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "http server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Info("http server stopped")
		return nil
	})

	return g.Wait()
}
