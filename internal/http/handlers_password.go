package httpx

import (
	"net/http"

	"github.com/hrbrew/hrbrew-api/internal/service"
)

// PasswordHandlers relays admin password changes to the identity provider.
type PasswordHandlers struct {
	Svc *service.PasswordService
}

type changePasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

// Change sets a new password for the account identified by email.
// POST /api/users/password.
func (h *PasswordHandlers) Change(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	session := GetSessionFromContext(r.Context())
	if err := h.Svc.Change(r.Context(), session.Profile, req.Email, req.NewPassword); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}
