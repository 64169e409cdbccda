package httpx

import (
	"net/http"

	"github.com/tilworks/glossary/internal/domain/model"
	"github.com/tilworks/glossary/internal/service"
)

// UserHandlers provides HTTP handlers for user operations.
type UserHandlers struct {
	Svc *service.UserService
}

// Create registers a new user.
// POST /api/users.
func (h *UserHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.Register(r.Context(), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, user.Public())
}

// List returns all users.
// GET /api/users.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	out := make([]model.PublicUser, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	WriteJSON(w, http.StatusOK, out)
}

// Get returns one user.
// GET /api/users/{id}.
func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user.Public())
}

// Me returns the user bound to the request's credentials. It serves both the
// token surface (GET /api/me) and the session surface (GET /auth/me); the
// middleware in front decides which credential puts the user in the context.
func (h *UserHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "token_invalid",
			Err:     errNoAuthenticatedUser,
		})
		return
	}
	WriteJSON(w, http.StatusOK, user.Public())
}

func registerUserRoutes(mux *http.ServeMux, h *UserHandlers, resolver TokenResolver) {
	mux.Handle("POST /api/users", http.HandlerFunc(h.Create))
	mux.Handle("GET /api/users", http.HandlerFunc(h.List))
	mux.Handle("GET /api/users/{id}", http.HandlerFunc(h.Get))
	mux.Handle("GET /api/me", RequireToken(resolver)(http.HandlerFunc(h.Me)))
	mux.Handle("GET /auth/me", RequireSession(resolver)(http.HandlerFunc(h.Me)))
}
