package common

import (
	"encoding/json"
	"log"
	"net/http"
)

// APIError is the uniform failure payload returned by every endpoint.
type APIError struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	Data          any    `json:"data,omitempty"`
}

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Printf("JSON エンコードに失敗: %v", err)
	}
}

// WriteError writes the uniform error payload.
func WriteError(logger *log.Logger, w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(logger, w, status, APIError{
		StatusCode:    status,
		StatusMessage: message,
		Data:          data,
	})
}
