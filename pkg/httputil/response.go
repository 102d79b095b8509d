package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response shape every endpoint returns. Existing clients
// of the API depend on it, so it is preserved exactly while status codes
// carry the machine-readable outcome.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Token   string      `json:"token,omitempty"`
}

// WriteEnvelope writes an envelope with the given status code.
func WriteEnvelope(w http.ResponseWriter, status int, env Envelope) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(env)
}

// WriteSuccess writes a 200 success envelope with optional data.
func WriteSuccess(w http.ResponseWriter, message string, data interface{}) error {
	return WriteEnvelope(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// WriteCreated writes a 201 success envelope with optional data.
func WriteCreated(w http.ResponseWriter, message string, data interface{}) error {
	return WriteEnvelope(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// WriteTokenIssued writes a 200 success envelope carrying a bearer token.
func WriteTokenIssued(w http.ResponseWriter, message, token string, data interface{}) error {
	return WriteEnvelope(w, http.StatusOK, Envelope{Success: true, Message: message, Token: token, Data: data})
}

// WriteFailure writes a failure envelope with the given status code.
func WriteFailure(w http.ResponseWriter, status int, message string) {
	WriteEnvelope(w, status, Envelope{Success: false, Message: message})
}

// WriteBadRequest writes a validation failure (400).
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteFailure(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes an authentication failure (401).
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteFailure(w, http.StatusUnauthorized, message)
}

// WriteForbidden writes an authorization failure (403).
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteFailure(w, http.StatusForbidden, message)
}

// WriteConflict writes a conflict failure (409).
func WriteConflict(w http.ResponseWriter, message string) {
	WriteFailure(w, http.StatusConflict, message)
}

// WriteInternalError writes an opaque server failure (500). Internal
// detail stays in the logs, never in the response.
func WriteInternalError(w http.ResponseWriter) {
	WriteFailure(w, http.StatusInternalServerError, "something went wrong")
}
