package utils

import (
	"encoding/json"
	"net/http"

	"loan-service/internal/apperr"
)

// Response is the JSON envelope used by all handlers
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code
func RespondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// RespondWithSuccess writes a success envelope
func RespondWithSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	RespondWithJSON(w, status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithError writes a failure envelope
func RespondWithError(w http.ResponseWriter, status int, message string) {
	RespondWithJSON(w, status, Response{
		Success: false,
		Message: message,
	})
}

// RespondWithAppError maps a classified error to an HTTP status and writes the
// failure envelope, including structured details when the error carries them.
func RespondWithAppError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindBusinessRule:
		status = http.StatusUnprocessableEntity
	case apperr.KindExternalService:
		status = http.StatusBadGateway
	}

	RespondWithJSON(w, status, Response{
		Success: false,
		Message: err.Error(),
		Data:    apperr.DetailsOf(err),
	})
}
