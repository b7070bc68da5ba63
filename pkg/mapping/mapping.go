// Package mapping provides the coercion primitives resource mappers use to
// project persisted documents into transport shapes.
//
// A mapping failure means persisted data has drifted from the expected shape.
// It is reported as an *Error matching ErrMapping and is never silently dropped.
package mapping

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMapping is matched by every mapping failure.
	ErrMapping = errors.New("mapping error")
	// ErrInvalidDate indicates a date-valued field that cannot be coerced.
	ErrInvalidDate = errors.New("invalid date")
	// ErrMissingField indicates a required field absent from the source.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidType indicates a field holding a value of an unexpected type.
	ErrInvalidType = errors.New("invalid type")
)

// Error describes a field that could not be mapped.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMapping, e.Field, e.Err)
}

// Unwrap exposes both ErrMapping and the underlying cause to errors.Is.
func (e *Error) Unwrap() []error {
	return []error{ErrMapping, e.Err}
}

func fieldError(field string, err error) error {
	return &Error{Field: field, Err: err}
}

// Hexer is satisfied by native identifier types such as BSON object ids.
type Hexer interface {
	Hex() string
}

// ID coerces an identifier value to its string form.
func ID(field string, v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", fieldError(field, ErrMissingField)
	case string:
		if t == "" {
			return "", fieldError(field, ErrMissingField)
		}
		return t, nil
	case Hexer:
		return t.Hex(), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", fieldError(field, fmt.Errorf("%w: %T", ErrInvalidType, v))
	}
}

// String reads a required text field.
func String(field string, v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", fieldError(field, ErrMissingField)
	case string:
		return t, nil
	default:
		return "", fieldError(field, fmt.Errorf("%w: %T", ErrInvalidType, v))
	}
}

// NullableString reads an optional text field. Missing, null and empty values
// all normalize to nil.
func NullableString(field string, v any) (*string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *string:
		if t == nil || *t == "" {
			return nil, nil
		}
		s := *t
		return &s, nil
	case string:
		if t == "" {
			return nil, nil
		}
		return &t, nil
	default:
		return nil, fieldError(field, fmt.Errorf("%w: %T", ErrInvalidType, v))
	}
}

// Timer is satisfied by native date types such as BSON datetimes.
type Timer interface {
	Time() time.Time
}

// Time coerces a date-valued field to a UTC time.Time. Strings are accepted
// in RFC 3339 form with or without fractional seconds.
func Time(field string, v any) (time.Time, error) {
	var t time.Time

	switch x := v.(type) {
	case nil:
		return time.Time{}, fieldError(field, ErrMissingField)
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return time.Time{}, fieldError(field, ErrMissingField)
		}
		t = *x
	case Timer:
		t = x.Time()
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, x)
		if err != nil {
			return time.Time{}, fieldError(field, ErrInvalidDate)
		}
		t = parsed
	default:
		return time.Time{}, fieldError(field, ErrInvalidDate)
	}

	if t.IsZero() {
		return time.Time{}, fieldError(field, ErrInvalidDate)
	}
	return t.UTC(), nil
}

// List maps every element or none. The first failure aborts the batch and is
// returned with the failing index.
func List[S, T any](items []S, fn func(S) (T, error)) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := fn(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
