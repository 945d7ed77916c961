package utilities

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the envelope every error response uses: a human readable
// message plus a machine readable code, optionally with extra context.
type ErrorBody struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Method string `json:"method,omitempty"`
	Path   string `json:"path,omitempty"`
}

// WriteJSON writes v as an application/json response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, status int, message, code string) {
	WriteJSON(w, status, ErrorBody{Error: message, Code: code})
}
