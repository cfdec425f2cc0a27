// Package api holds the HTTP plumbing shared by every service:
// JSON responses, request decoding and bearer-token authentication.
package api

import (
	"encoding/json"
	"net/http"

	apperr "github.com/oggyb/liftlink/internal/errors"
	"github.com/oggyb/liftlink/internal/logger"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", "error", err)
	}
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Error maps err to its category and writes {"error": msg}.
// Unexpected errors are logged with the request-scoped logger.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.Map(err)
	status := e.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context(), nil).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	JSON(w, status, map[string]string{"error": e.Message})
}
