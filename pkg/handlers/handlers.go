// Package handlers writes the JSON response envelope shared by every endpoint.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/campus/pkg/validation"
)

// Envelope is the response body shape: {success, message?, data?, errors?}.
type Envelope struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Data    any                     `json:"data,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// RespondJSON writes v as JSON with the given status.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RespondData writes a successful envelope carrying data. message may be empty.
func RespondData(w http.ResponseWriter, status int, message string, data any) {
	RespondJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// RespondMessage writes a successful envelope with only a message.
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, Envelope{Success: true, Message: message})
}

// RespondNotFound writes a failed envelope with status 404.
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusNotFound, Envelope{Success: false, Message: message})
}

// RespondError writes a failed envelope. Server errors are logged and their
// detail is replaced by the status text. Validation errors carry their fields.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	env := Envelope{Success: false, Message: err.Error()}

	var verr *validation.Error
	if errors.As(err, &verr) {
		env.Errors = verr.Fields
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
		env.Message = http.StatusText(status)
	}

	RespondJSON(w, status, env)
}
