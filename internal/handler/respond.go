package handler

import (
	"encoding/json"
	"net/http"
)

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

func writeMessage(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": success,
		"message": message,
	})
}
