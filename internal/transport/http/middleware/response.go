package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes the fixed {"message": ...} error shape with the correct Content-Type.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
