package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Send a standardized JSON error response
func RespondWithError(w http.ResponseWriter, statusCode int, code string, message string) {
	respondWithDetail(w, statusCode, ErrorDetail{Code: code, Message: message})
}

// RespondWithFieldError reports an error tied to one field of the request body.
func RespondWithFieldError(w http.ResponseWriter, statusCode int, code, field, message string) {
	respondWithDetail(w, statusCode, ErrorDetail{Code: code, Message: message, Field: field})
}

func respondWithDetail(w http.ResponseWriter, statusCode int, detail ErrorDetail) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: detail})
}

func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
