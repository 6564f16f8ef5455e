package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"paisa/internal/core"
	"paisa/internal/log"
	"paisa/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

var validationErrors = []error{
	core.ErrInvalidAmount,
	core.ErrInvalidDate,
	core.ErrEmptyDescription,
	core.ErrEmptyCategory,
	core.ErrEmptyName,
	core.ErrInvalidCycle,
	core.ErrInvalidPriority,
	core.ErrEmptyMessage,
	core.ErrInvalidRating,
}

// writeServiceError maps service-layer errors onto HTTP statuses:
// validation failures become 422, missing records 404, the rest 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, verr := range validationErrors {
		if errors.Is(err, verr) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
		log.FieldMethod, r.Method, log.FieldPath, r.URL.Path, log.FieldError, err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
