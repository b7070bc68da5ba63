package docstore

import "errors"

var (
	// ErrUnknownDriver indicates the configured driver is not supported.
	ErrUnknownDriver = errors.New("unknown docstore driver")
	// ErrInvalidField indicates a sort field name that cannot be expressed safely.
	ErrInvalidField = errors.New("invalid field name")
)
