package announcements

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/campus/pkg/storage"
	"github.com/JaimeStill/campus/pkg/validation"
)

// MapHTTPStatus maps announcement errors to HTTP status codes. Mapping and
// persistence failures are internal errors.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, validation.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrUploadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
