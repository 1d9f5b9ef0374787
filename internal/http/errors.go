package httpx

import (
	"net/http"

	apperrors "github.com/hrbrew/hrbrew-api/internal/errors"
)

// WriteAppError maps an application error to its HTTP status and writes
// the JSON error body. Unknown errors become opaque 500s so internal
// details never reach the client.
func WriteAppError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case apperrors.IsValidation(err):
		code = http.StatusBadRequest
	case apperrors.IsUnauthorized(err):
		code = http.StatusUnauthorized
	case apperrors.IsForbidden(err):
		code = http.StatusForbidden
	case apperrors.IsNotFound(err):
		code = http.StatusNotFound
	case apperrors.IsConflict(err):
		code = http.StatusConflict
	}

	body := map[string]string{
		"error":   string(apperrors.GetCode(err)),
		"message": err.Error(),
	}
	if code == http.StatusInternalServerError {
		body["message"] = "internal server error"
	}
	if field := apperrors.GetField(err); field != "" {
		body["field"] = field
	}
	WriteJSON(w, code, body)
}
