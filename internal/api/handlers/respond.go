package handlers

import (
	"encoding/json"
	"net/http"
)

// errorBody is the structured error payload: a concise machine-readable
// code plus the offending field names when validation failed.
type errorBody struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code string) {
	respondJSON(w, status, errorBody{Error: code})
}

func respondFieldError(w http.ResponseWriter, status int, code string, fields []string) {
	respondJSON(w, status, errorBody{Error: code, Fields: fields})
}
