// Package web holds the small shared pieces of the HTTP boundary: JSON
// responses and the mapping from domain errors to status codes.
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vendorguard/trusteed/internal/model"
)

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteDomainError maps a domain error onto an HTTP status and writes it.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case model.IsNotFound(err):
		WriteError(w, http.StatusNotFound, err.Error())
	case model.IsConflict(err):
		WriteError(w, http.StatusConflict, err.Error())
	case model.IsValidation(err):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

// HealthHandler returns the standard health endpoint for the named service.
func HealthHandler(service string) http.HandlerFunc {
	start := time.Now()
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"service":   service,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"uptime":    time.Since(start).Seconds(),
		})
	}
}
