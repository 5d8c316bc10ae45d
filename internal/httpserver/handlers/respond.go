package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pingodeleite/internal/apperr"
	"pingodeleite/internal/models"
)

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// respondFrom writes v with the backend that produced it in the
// X-Data-Origin header, so clients can show a non-blocking offline indicator.
func respondFrom(w http.ResponseWriter, origin models.Origin, v interface{}) {
	if origin != "" {
		w.Header().Set("X-Data-Origin", string(origin))
	}
	respondJSON(w, v)
}

// respondStatusFrom is respondFrom with a non-200 status. Headers go out
// before the status line, so they must be set first.
func respondStatusFrom(w http.ResponseWriter, status int, origin models.Origin, v interface{}) {
	if origin != "" {
		w.Header().Set("X-Data-Origin", string(origin))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// respondError maps the error taxonomy onto status codes. Degraded outcomes
// never reach here; they are successes with a local origin.
func respondError(w http.ResponseWriter, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, apperr.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, apperr.ErrNoConnectionString):
		http.Error(w, "remote store is not configured", http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
