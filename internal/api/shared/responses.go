package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taskline/taskline-api/internal/platform/logger"
)

// FieldError describes one request field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON error envelope returned by every endpoint.
// Details is populated only for request validation failures.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// RespondWithJSON writes data as a JSON response with the given status
// code. An encoding failure is logged and the connection is left as-is;
// the status line has already been sent.
func RespondWithJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Default().Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes the error envelope with the given status code
// and message.
func RespondWithError(w http.ResponseWriter, status int, message string) {
	RespondWithJSON(w, status, ErrorResponse{Error: message})
}

// RespondWithValidationError writes the 400 validation envelope with
// per-field details.
func RespondWithValidationError(w http.ResponseWriter, details []FieldError) {
	RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Details: details,
	})
}

// RespondWithErrorAndLog logs the underlying error with request context
// and writes the public message. Internal details never reach the client.
func RespondWithErrorAndLog(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed",
			"status", status,
			"path", r.URL.Path,
			"error", err)
	} else {
		log.DebugContext(r.Context(), "request rejected",
			"status", status,
			"path", r.URL.Path,
			"error", err)
	}
	RespondWithError(w, status, message)
}
