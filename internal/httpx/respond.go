package httpx

import (
	"encoding/json"
	"net/http"
)

// FieldError is one entry of a 400 validation response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorBody struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}

// WriteValidationError emits the 400 shape shared by every endpoint:
// a summary message plus per-field detail.
func WriteValidationError(w http.ResponseWriter, fields []FieldError) {
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: fields})
}

func WriteNotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "not found"
	}
	WriteError(w, http.StatusNotFound, msg)
}

// WriteInternalError hides the cause from the client; callers log it.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "internal server error")
}
