// Package validation reports rejected input with field-level detail.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// ErrValidation is matched by every *Error.
var ErrValidation = errors.New("validation failed")

const notBlankTag = "notblank"

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a rejected input with the fields that caused it.
type Error struct {
	Message string
	Fields  []FieldError
}

// Field creates an Error for a single field.
func Field(field, message string) *Error {
	return &Error{
		Message: fmt.Sprintf("%s %s", field, message),
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

// Validator checks tagged structs and translates failures to English messages.
// Field names are reported by their json tag.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New creates a Validator with English translations and the notblank tag.
// It panics if the built-in registrations fail, which only happens when the
// validator or translator packages change incompatibly.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	locale := en.New()
	trans, found := ut.New(locale, locale).GetTranslator("en")
	if !found {
		panic("validation: english translator not registered")
	}
	must("default translations", entranslations.RegisterDefaultTranslations(v, trans))

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must(notBlankTag, v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		if s, ok := fl.Field().Interface().(string); ok {
			return strings.TrimSpace(s) != ""
		}
		return false
	}))

	must(notBlankTag+" translation", v.RegisterTranslation(notBlankTag, trans,
		func(t ut.Translator) error {
			return t.Add(notBlankTag, "{0} cannot be blank", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(notBlankTag, fe.Field())
			if err != nil {
				return fe.Field() + " cannot be blank"
			}
			return msg
		},
	))

	return &Validator{validate: v, trans: trans}
}

func must(what string, err error) {
	if err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", what, err))
	}
}

// Struct validates s. Failures are returned as an *Error; anything else
// (such as passing a non-struct) is returned unchanged.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Translate(v.trans)
		fields = append(fields, FieldError{Field: fe.Field(), Message: msg})
		messages = append(messages, msg)
	}

	return &Error{
		Message: strings.Join(messages, "; "),
		Fields:  fields,
	}
}
