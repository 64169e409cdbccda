package httpx

import (
	"net/http"

	"github.com/tilworks/glossary/internal/service"
)

// CategoryHandlers provides HTTP handlers for category operations.
type CategoryHandlers struct {
	Svc *service.CategoryService
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

// Create returns the category with the submitted name, creating it when
// absent. Repeated creates with the same name return the same row.
// POST /api/categories.
func (h *CategoryHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	cat, err := h.Svc.Ensure(r.Context(), req.Name)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, cat)
}

// List returns all categories.
// GET /api/categories.
func (h *CategoryHandlers) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Svc.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, cats)
}

// Get returns one category.
// GET /api/categories/{id}.
func (h *CategoryHandlers) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, cat)
}

// Acronyms returns the acronyms attached to a category.
// GET /api/categories/{id}/acronyms.
func (h *CategoryHandlers) Acronyms(w http.ResponseWriter, r *http.Request) {
	acrs, err := h.Svc.Acronyms(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, acrs)
}

// Attach links a category to an acronym. Re-attaching is a no-op.
// POST /api/acronyms/{acronymID}/categories/{categoryID}.
func (h *CategoryHandlers) Attach(w http.ResponseWriter, r *http.Request) {
	err := h.Svc.AttachTo(r.Context(), r.PathValue("acronymID"), r.PathValue("categoryID"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Detach unlinks a category from an acronym. Detaching an absent link succeeds.
// DELETE /api/acronyms/{acronymID}/categories/{categoryID}.
func (h *CategoryHandlers) Detach(w http.ResponseWriter, r *http.Request) {
	err := h.Svc.DetachFrom(r.Context(), r.PathValue("acronymID"), r.PathValue("categoryID"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func registerCategoryRoutes(mux *http.ServeMux, h *CategoryHandlers, resolver TokenResolver) {
	requireToken := RequireToken(resolver)

	mux.Handle("GET /api/categories", http.HandlerFunc(h.List))
	mux.Handle("GET /api/categories/{id}", http.HandlerFunc(h.Get))
	mux.Handle("GET /api/categories/{id}/acronyms", http.HandlerFunc(h.Acronyms))

	mux.Handle("POST /api/categories", requireToken(http.HandlerFunc(h.Create)))
	mux.Handle("POST /api/acronyms/{acronymID}/categories/{categoryID}",
		requireToken(http.HandlerFunc(h.Attach)))
	mux.Handle("DELETE /api/acronyms/{acronymID}/categories/{categoryID}",
		requireToken(http.HandlerFunc(h.Detach)))
}
