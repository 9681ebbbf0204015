package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/internal/errdefs"
	"github.com/nazmulrahman/young-star-app/pkg/logging"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorStatus(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeError(w http.ResponseWriter, r *http.Request, log *logging.Logger, err error) {
	switch {
	case errors.Is(err, errdefs.ErrValidation):
		writeErrorStatus(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errdefs.ErrAuthentication):
		writeErrorStatus(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errdefs.ErrPermissionDenied):
		writeErrorStatus(w, http.StatusForbidden, err.Error())
	case errors.Is(err, errdefs.ErrNotFound), errors.Is(err, errdefs.ErrProfileNotFound):
		writeErrorStatus(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errdefs.ErrConflict):
		writeErrorStatus(w, http.StatusConflict, err.Error())
	case errors.Is(err, errdefs.ErrTransport), errors.Is(err, errdefs.ErrProfileFetch):
		writeErrorStatus(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, errdefs.ErrPartialApproval):
		// Surfaced verbatim so the inconsistency is visible to operators.
		writeErrorStatus(w, http.StatusInternalServerError, err.Error())
	default:
		log.Error(r.Context(), "unhandled error", zap.Error(err))
		writeErrorStatus(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
