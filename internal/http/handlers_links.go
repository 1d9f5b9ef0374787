package httpx

import (
	"net/http"

	"github.com/hrbrew/hrbrew-api/internal/domain/model"
	"github.com/hrbrew/hrbrew-api/internal/service"
)

// LinkHandlers provides HTTP handlers for per-user portal links.
type LinkHandlers struct {
	Svc *service.LinkService
}

// ListMine returns the links belonging to the session user.
// GET /api/me/links.
func (h *LinkHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	links, err := h.Svc.ListForUser(r.Context(), session.Profile.ID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"links": links})
}

// ListForUser returns the links belonging to the given user.
// GET /api/users/{id}/links.
func (h *LinkHandlers) ListForUser(w http.ResponseWriter, r *http.Request) {
	links, err := h.Svc.ListForUser(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"links": links})
}

// Create adds a link to the given user's list.
// POST /api/users/{id}/links.
func (h *LinkHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLinkRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	session := GetSessionFromContext(r.Context())
	link, err := h.Svc.Add(r.Context(), session.Profile.ID, r.PathValue("id"), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, link)
}

// Delete removes a link.
// DELETE /api/links/{id}.
func (h *LinkHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if err := h.Svc.Remove(r.Context(), session.Profile.ID, r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
