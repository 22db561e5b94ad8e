package response

import (
	"encoding/json"
	"net/http"
)

// ServerErrorMessage is the only detail clients see for internal failures.
const ServerErrorMessage = "server error"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends an error response with a client-facing message
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// ServerError sends the generic 500 response
func ServerError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, ServerErrorMessage)
}
