package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"secex-api/internal/domain"
)

// httpStatusFromError maps domain errors to HTTP status codes. Storage
// failures fall through to 500 and are never retried here.
func httpStatusFromError(err error) int {
	var notFound *domain.NotFoundError
	var validation *domain.ValidationError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders the JSON error body. Error responses are not
// gzip-encoded; only successful envelopes are.
func writeError(w http.ResponseWriter, err error) {
	code := httpStatusFromError(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		// Do not leak storage internals to clients.
		message = "internal server error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    code,
		"message": message,
	})
}
