package httpx

import (
	"errors"
	"net/http"

	"github.com/tilworks/glossary/internal/domain/model"
	"github.com/tilworks/glossary/internal/service"
)

var errNoAuthenticatedUser = errors.New("no authenticated user on request")

// AcronymHandlers provides HTTP handlers for acronym operations.
type AcronymHandlers struct {
	Svc   *service.AcronymService
	Users *service.UserService
}

// Create persists a new acronym and attaches the submitted categories.
// POST /api/acronyms.
func (h *AcronymHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "token_invalid",
			Err:     errNoAuthenticatedUser,
		})
		return
	}

	var in model.AcronymData
	if !DecodeJSON(w, r, &in) {
		return
	}

	out, err := h.Svc.Create(r.Context(), user.ID, in)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, out)
}

// List returns all acronyms.
// GET /api/acronyms.
func (h *AcronymHandlers) List(w http.ResponseWriter, r *http.Request) {
	acrs, err := h.Svc.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, acrs)
}

// Get returns one acronym.
// GET /api/acronyms/{id}.
func (h *AcronymHandlers) Get(w http.ResponseWriter, r *http.Request) {
	acr, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, acr)
}

// Update rewrites an acronym and reconciles its categories.
// PUT /api/acronyms/{id}.
func (h *AcronymHandlers) Update(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "token_invalid",
			Err:     errNoAuthenticatedUser,
		})
		return
	}

	var in model.AcronymData
	if !DecodeJSON(w, r, &in) {
		return
	}

	out, err := h.Svc.Update(r.Context(), r.PathValue("id"), user.ID, in)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

// Delete removes an acronym.
// DELETE /api/acronyms/{id}.
func (h *AcronymHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search returns acronyms matching the term exactly on either form.
// GET /api/acronyms/search?term=<term>.
func (h *AcronymHandlers) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_term",
			Err:     errors.New("search term is required"),
		})
		return
	}

	acrs, err := h.Svc.Search(r.Context(), term)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, acrs)
}

// First returns the first acronym.
// GET /api/acronyms/first.
func (h *AcronymHandlers) First(w http.ResponseWriter, r *http.Request) {
	acr, err := h.Svc.First(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, acr)
}

// Sorted returns all acronyms ordered by short form.
// GET /api/acronyms/sorted.
func (h *AcronymHandlers) Sorted(w http.ResponseWriter, r *http.Request) {
	acrs, err := h.Svc.Sorted(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, acrs)
}

// User returns the public view of the user owning an acronym.
// GET /api/acronyms/{id}/user.
func (h *AcronymHandlers) User(w http.ResponseWriter, r *http.Request) {
	acr, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	user, err := h.Users.Get(r.Context(), acr.UserID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user.Public())
}

// Categories returns the categories attached to an acronym.
// GET /api/acronyms/{id}/categories.
func (h *AcronymHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Svc.Categories(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, cats)
}

type setCategoriesRequest struct {
	Categories []string `json:"categories"`
}

// SetCategories converges an acronym's category links toward the submitted
// names and returns the itemized report.
// PUT /api/acronyms/{id}/categories.
func (h *AcronymHandlers) SetCategories(w http.ResponseWriter, r *http.Request) {
	var req setCategoriesRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	report, err := h.Svc.SetCategories(r.Context(), r.PathValue("id"), req.Categories)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	status := http.StatusOK
	if !report.Clean() {
		status = http.StatusMultiStatus
	}
	WriteJSON(w, status, report)
}

func registerAcronymRoutes(mux *http.ServeMux, h *AcronymHandlers, resolver TokenResolver) {
	requireToken := RequireToken(resolver)

	mux.Handle("GET /api/acronyms", http.HandlerFunc(h.List))
	mux.Handle("GET /api/acronyms/search", http.HandlerFunc(h.Search))
	mux.Handle("GET /api/acronyms/first", http.HandlerFunc(h.First))
	mux.Handle("GET /api/acronyms/sorted", http.HandlerFunc(h.Sorted))
	mux.Handle("GET /api/acronyms/{id}", http.HandlerFunc(h.Get))
	mux.Handle("GET /api/acronyms/{id}/categories", http.HandlerFunc(h.Categories))
	mux.Handle("GET /api/acronyms/{id}/user", http.HandlerFunc(h.User))

	mux.Handle("POST /api/acronyms", requireToken(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/acronyms/{id}", requireToken(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/acronyms/{id}", requireToken(http.HandlerFunc(h.Delete)))
	mux.Handle("PUT /api/acronyms/{id}/categories", requireToken(http.HandlerFunc(h.SetCategories)))
}
