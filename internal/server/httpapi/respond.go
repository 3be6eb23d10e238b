package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/savekeeper/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON serializes v with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			s.logger.Error(context.Background(), "error encoding response", "error", err)
		}
	}
}

// writeError maps a service error to its HTTP status. Unrecognized errors
// become 500 with a generic body so internals never leak to clients.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, common.ErrForbidden):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, common.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, common.ErrValidation):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, common.ErrNotLockHolder):
		status, msg = http.StatusLocked, err.Error()
	case errors.Is(err, common.ErrLockConflict):
		status, msg = http.StatusFailedDependency, err.Error()
	default:
		s.logger.Error(r.Context(), "internal error", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	s.writeJSON(w, status, errorResponse{Error: msg})
}
