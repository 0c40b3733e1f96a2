// Package httpx holds the JSON writers for the health and debug endpoints.
// Every other page in the app renders HTML through the view package.
package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes payload with the given status. On an encoding failure nothing
// of the payload has been written yet, so the response degrades to a plain
// 500 instead of truncated JSON.
func JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Error writes the error envelope {"error": code} used by the JSON endpoints.
func Error(w http.ResponseWriter, status int, code string) {
	JSON(w, status, map[string]string{"error": code})
}
