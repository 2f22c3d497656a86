// Package web holds the JSON response helpers shared by every module handler.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/fieldops-backend/internal/table"
	"github.com/georgemunganga/fieldops-backend/internal/validation"
)

// ErrInvalidID is returned by PathID for malformed ids.
var ErrInvalidID = errors.New("invalid id")

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// MsgInternal is the body of every 500; the cause is logged by the service.
const MsgInternal = "internal server error"

// Message writes {"error": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, map[string]string{"error": msg})
}

// Error maps err onto a status code and writes it.
func Error(w http.ResponseWriter, err error) {
	var fieldErrs validation.Errors
	switch {
	case errors.As(err, &fieldErrs):
		Respond(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": fieldErrs})
	case errors.Is(err, ErrInvalidID):
		Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, table.ErrNotFound):
		Message(w, http.StatusNotFound, err.Error())
	case table.IsDuplicate(err):
		Message(w, http.StatusConflict, "a record with the same key already exists")
	default:
		Message(w, http.StatusInternalServerError, MsgInternal)
	}
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// PathID returns the URL parameter key, which must be a UUID.
func PathID(r *http.Request, key string) (string, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", ErrInvalidID
	}
	return id.String(), nil
}

// IntQuery returns the integer query parameter key, or def when absent or malformed.
func IntQuery(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
