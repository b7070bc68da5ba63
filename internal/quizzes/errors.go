package quizzes

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/campus/pkg/validation"
)

// MapHTTPStatus maps quiz errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, validation.ErrValidation) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
