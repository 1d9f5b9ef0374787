package httpx

import (
	"net/http"
	"strconv"

	"github.com/hrbrew/hrbrew-api/internal/domain/model"
	"github.com/hrbrew/hrbrew-api/internal/service"
)

const defaultUserListLimit = 100

// UserHandlers provides HTTP handlers for the admin user directory.
type UserHandlers struct {
	Svc *service.UserService
}

// List returns every portal user with their links.
// GET /api/users.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultUserListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	users, err := h.Svc.ListWithLinks(r.Context(), limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Upsert creates or updates a profile row.
// POST /api/users.
func (h *UserHandlers) Upsert(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.Upsert(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// Get returns one user row.
// GET /api/users/{id}.
func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}
