package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bbct/bbct/internal/models"
	cardservice "github.com/bbct/bbct/internal/services/card"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Debug("failed to write response", "error", err)
		}
	}
}

// StatusFor maps a card store or service error to an HTTP status code
func StatusFor(err error) int {
	switch {
	case cardservice.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, models.ErrStorageUnavailable), errors.Is(err, models.ErrStoreClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Error writes an error response, mapping domain errors to HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	JSON(w, StatusFor(err), map[string]string{"error": err.Error()})
}

// BadRequest writes a 400 error with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, map[string]string{"error": message})
}
