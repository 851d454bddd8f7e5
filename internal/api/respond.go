// Package api holds the JSON response envelope shared by all handlers.
package api

import (
	"encoding/json"
	"net/http"
	"time"
)

type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
}

// OK writes a success envelope.
func OK(w http.ResponseWriter, status int, data any, message string) {
	write(w, status, envelope{Success: true, Data: data, Message: message})
}

// Fail writes an error envelope. details may be empty.
func Fail(w http.ResponseWriter, status int, errMsg, details string) {
	write(w, status, envelope{Success: false, Error: errMsg, Details: details})
}

func write(w http.ResponseWriter, status int, e envelope) {
	e.Timestamp = time.Now().UTC().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(e)
}
