package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/voyage-planner/voyage/internal/domain"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Succeeded and Failed are set only for partial_cascade.
	Succeeded []string `json:"succeeded,omitempty"`
	Failed    []string `json:"failed,omitempty"`
}

// ErrorResponse wraps ErrorDetail as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestError rejects a request before it reaches the service layer
// (e.g. missing or malformed body, bad path id).
func requestError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// serviceError maps a service error onto its HTTP response. entity names
// what was being looked up, for the not-found message.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, entity string, err error) {
	var cascade *domain.CascadeError
	switch {
	case errors.As(err, &cascade):
		s.log.ErrorContext(r.Context(), "partial cascade", "method", r.Method, "path", r.URL.Path, "error", err)
		detail := ErrorDetail{
			Code:      "partial_cascade",
			Message:   entity + " was only partially deleted",
			Succeeded: cascade.Succeeded,
			Failed:    make([]string, len(cascade.Failed)),
		}
		for i, f := range cascade.Failed {
			detail.Failed[i] = f.Name
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: detail})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", entity+" not found or unauthorized")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", unwrapMessage(err))
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", unwrapMessage(err))
	default:
		s.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TripService.Create: validation error: name is required" → "name is required"
func unwrapMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrValidation, domain.ErrConflict, domain.ErrUnauthorized} {
		prefix := sentinel.Error() + ": "
		if i := strings.Index(msg, prefix); i >= 0 {
			return msg[i+len(prefix):]
		}
	}
	return msg
}
