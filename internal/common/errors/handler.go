// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorResponder writes StandardError values as JSON HTTP responses.
type ErrorResponder struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorResponder(logger Logger) *ErrorResponder {
	return &ErrorResponder{logger: logger}
}

// errorBody is the wire shape for error responses.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Respond normalizes err to a StandardError, logs it, and writes the
// matching status code: 4xx for client input errors, 500 otherwise.
func (h *ErrorResponder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := h.normalizeError(err)

	h.logger.Error("request failed", map[string]interface{}{
		"path":    r.URL.Path,
		"code":    stdErr.Code,
		"message": stdErr.Message,
		"details": stdErr.Details,
	})

	status := http.StatusInternalServerError
	if stdErr.IsClientError() {
		status = statusForClientError(stdErr.Code)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: stdErr.Message,
		Code:  string(stdErr.Code),
	})
}

func statusForClientError(code ErrorCode) int {
	switch code {
	case ErrCodeTokenInvalid:
		return http.StatusForbidden
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// normalizeError ensures we always have a StandardError.
func (h *ErrorResponder) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
