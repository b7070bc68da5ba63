package storage

import (
	"errors"
	"net/http"
)

var (
	// ErrUploadFailed wraps any failure writing an upload to the backend.
	ErrUploadFailed = errors.New("upload failed")
	// ErrNotConfigured indicates an object storage operation with no bucket configured.
	ErrNotConfigured = errors.New("object storage not configured")
	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrEmptyKey indicates an empty storage key was provided.
	ErrEmptyKey = errors.New("storage key must not be empty")
	// ErrInvalidKey indicates the storage key contains a path traversal segment.
	ErrInvalidKey = errors.New("storage key contains invalid path segment")
)

// MapHTTPStatus maps storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotConfigured) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptyKey) || errors.Is(err, ErrInvalidKey) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUploadFailed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
