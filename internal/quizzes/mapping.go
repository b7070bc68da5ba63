package quizzes

import (
	"github.com/JaimeStill/campus/pkg/docstore"
	"github.com/JaimeStill/campus/pkg/mapping"
)

// ToQuiz projects a persisted document. A nil document maps to nil; a
// dueDate that cannot be read as a date is a mapping error.
func ToQuiz(doc docstore.Document) (*Quiz, error) {
	if doc == nil {
		return nil, nil
	}

	var (
		q   Quiz
		err error
	)

	if q.ID, err = mapping.ID(docstore.FieldID, doc[docstore.FieldID]); err != nil {
		return nil, err
	}
	if q.Title, err = mapping.String(fieldTitle, doc[fieldTitle]); err != nil {
		return nil, err
	}
	if q.Course, err = mapping.String(fieldCourse, doc[fieldCourse]); err != nil {
		return nil, err
	}
	if q.Description, err = mapping.NullableString(fieldDescription, doc[fieldDescription]); err != nil {
		return nil, err
	}
	if q.DueDate, err = mapping.Time(fieldDueDate, doc[fieldDueDate]); err != nil {
		return nil, err
	}
	if q.CreatedAt, err = mapping.Time(docstore.FieldCreatedAt, doc[docstore.FieldCreatedAt]); err != nil {
		return nil, err
	}
	if q.UpdatedAt, err = mapping.Time(docstore.FieldUpdatedAt, doc[docstore.FieldUpdatedAt]); err != nil {
		return nil, err
	}

	status, err := mapping.NullableString(fieldStatus, doc[fieldStatus])
	if err != nil {
		return nil, err
	}
	q.Status = StatusPending
	if status != nil {
		q.Status = *status
	}

	return &q, nil
}

// ToQuizzes projects every document or fails without a partial list.
func ToQuizzes(docs []docstore.Document) ([]Quiz, error) {
	return mapping.List(docs, func(doc docstore.Document) (Quiz, error) {
		q, err := ToQuiz(doc)
		if err != nil {
			return Quiz{}, err
		}
		if q == nil {
			return Quiz{}, &mapping.Error{Field: docstore.FieldID, Err: mapping.ErrMissingField}
		}
		return *q, nil
	})
}
