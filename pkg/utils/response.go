package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body returned for failed requests
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse is the JSON body returned for successful requests
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithError writes an error response with the given status code
func RespondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// RespondWithSuccess writes a success response with the given status code
func RespondWithSuccess(w http.ResponseWriter, code int, message string, data interface{}) {
	respondWithJSON(w, code, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}
