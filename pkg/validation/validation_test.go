package validation_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/campus/pkg/validation"
)

type createInput struct {
	Title  string  `json:"title" validate:"notblank"`
	Course string  `json:"course" validate:"required"`
	Status *string `json:"status,omitempty" validate:"omitnil,max=5"`
}

func ptr(s string) *string { return &s }

func TestStruct(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name   string
		input  createInput
		fields []string
	}{
		{
			name:  "valid",
			input: createInput{Title: "Quiz", Course: "Math"},
		},
		{
			name:  "valid with optional",
			input: createInput{Title: "Quiz", Course: "Math", Status: ptr("done")},
		},
		{
			name:   "blank title",
			input:  createInput{Title: "   ", Course: "Math"},
			fields: []string{"title"},
		},
		{
			name:   "missing course and long status",
			input:  createInput{Title: "Quiz", Status: ptr("finished")},
			fields: []string{"course", "status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("err = %T %v, want *validation.Error", err, err)
			}
			if !errors.Is(err, validation.ErrValidation) {
				t.Error("err does not match ErrValidation")
			}
			if len(verr.Fields) != len(tt.fields) {
				t.Fatalf("fields = %+v, want %v", verr.Fields, tt.fields)
			}
			for i, f := range tt.fields {
				if verr.Fields[i].Field != f {
					t.Errorf("fields[%d] = %q, want %q", i, verr.Fields[i].Field, f)
				}
				if verr.Fields[i].Message == "" {
					t.Errorf("fields[%d] has empty message", i)
				}
			}
		})
	}
}

func TestNotBlankMessage(t *testing.T) {
	err := validation.New().Struct(createInput{Course: "Math"})

	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *validation.Error", err)
	}
	if got, want := verr.Fields[0].Message, "title cannot be blank"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestNewRegistersTranslations(t *testing.T) {
	var v *validation.Validator
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("New panicked: %v", r)
			}
		}()
		v = validation.New()
	}()

	err := v.Struct(createInput{Title: "Quiz"})

	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *validation.Error", err)
	}
	if got, want := verr.Fields[0].Message, "course is a required field"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestField(t *testing.T) {
	err := validation.Field("dueDate", "must not be in the past")

	if err.Error() != "dueDate must not be in the past" {
		t.Errorf("Error() = %q", err.Error())
	}
	if len(err.Fields) != 1 || err.Fields[0].Field != "dueDate" {
		t.Errorf("Fields = %+v", err.Fields)
	}
	if !errors.Is(err, validation.ErrValidation) {
		t.Error("Field error does not match ErrValidation")
	}
}
