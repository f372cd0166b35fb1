// Package response writes the JSON envelope every endpoint answers with:
// a success flag, a human-readable message, and optional extra fields
// flattened into the top-level object (products, category, token, ...).
package response

import (
	"encoding/json"
	"net/http"
)

// M carries extra top-level fields alongside success/message.
type M map[string]interface{}

func write(w http.ResponseWriter, status int, success bool, message string, extra M) {
	body := make(map[string]interface{}, len(extra)+2)
	for k, v := range extra {
		body[k] = v
	}
	body["success"] = success
	if message != "" {
		body["message"] = message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// OK sends a 200 success envelope.
func OK(w http.ResponseWriter, message string, extra M) {
	write(w, http.StatusOK, true, message, extra)
}

// Created sends a 201 success envelope.
func Created(w http.ResponseWriter, message string, extra M) {
	write(w, http.StatusCreated, true, message, extra)
}

// Fail sends success=false with the given status. Used for expected
// business failures that keep a 200 status (e.g. wrong password on login).
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, false, message, nil)
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, false, message, nil)
}

// ValidationError sends a 400 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusBadRequest, false, "Validation failed", M{"errors": errs})
}

// JSON writes an arbitrary body verbatim — used where the original API
// answered with a bare payload (order lists, gateway token pass-through).
func JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}
