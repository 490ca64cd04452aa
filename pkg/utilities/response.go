package utilities

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorBody for status with a public message.
func WriteError(w http.ResponseWriter, status int, message string, details any) {
	WriteJSON(w, status, ErrorBody{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
		Details:    details,
	})
}
