package errors

import (
	"encoding/json"
	"net/http"
)

// APIError is the uniform error body. Every failure surfaces as a single
// human-readable detail string.
type APIError struct {
	Detail string `json:"detail"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
