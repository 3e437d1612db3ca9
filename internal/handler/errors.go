package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/choiyuns329/Japan-trip/internal/domain"
)

// ErrorDetail is the body of every error response:
//
//	{"error": {"code": "not_found", "message": "flight not found"}}
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// persistWarning is sent in the Warning header when a change was applied but
// could not be saved.
const persistWarning = `199 tripmate "change applied but not saved"`

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestError reports a request rejected before reaching the service layer
// (malformed body, missing field).
func requestError(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusBadRequest, "validation_error", message)
}

// bodyError reports a request body that could not be decoded.
func bodyError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeErrorBody(w, http.StatusRequestEntityTooLarge, "payload_too_large", err.Error())
		return
	}
	requestError(w, err.Error())
}

// writeError maps a service error onto a status and error code. Unexpected
// errors are logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrGenerationInFlight):
		writeErrorBody(w, http.StatusConflict, "conflict", domain.ErrGenerationInFlight.Error())
	case errors.Is(err, domain.ErrNoPlan):
		// The cause stays in the log; the client only learns that nothing came back.
		writeErrorBody(w, http.StatusUnprocessableEntity, "no_plan", domain.ErrNoPlan.Error())
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, "not_found", unwrapMessage(err, domain.ErrNotFound))
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeErrorBody(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// writeResult writes v after a mutation. A persistence failure still returns
// the applied result, flagged with a Warning header; any other error is written
// as an error response. It reports whether v was written.
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, status int, v any, err error) bool {
	if err != nil && !errors.Is(err, domain.ErrPersist) {
		s.writeError(w, r, err)
		return false
	}
	if err != nil {
		w.Header().Set("Warning", persistWarning)
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return true
	}
	writeJSON(w, status, v)
	return true
}

// unwrapMessage extracts the human-readable part after a sentinel error.
// e.g. "service.TripService.SetInfo: validation error: startDate: must be a date"
// → "startDate: must be a date"
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 && len(msg) > i+len(prefix) {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}
