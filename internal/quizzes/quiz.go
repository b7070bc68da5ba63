// Package quizzes implements the quiz and assignment resource.
package quizzes

import "time"

// Collection is the document store collection holding quizzes.
const Collection = "quizzes"

// StatusPending is assigned when no status is supplied.
const StatusPending = "pending"

const (
	fieldTitle       = "title"
	fieldCourse      = "course"
	fieldDescription = "description"
	fieldDueDate     = "dueDate"
	fieldStatus      = "status"
)

// Quiz is the transport shape of a persisted quiz.
type Quiz struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Course      string    `json:"course"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateCommand carries the data needed to create a quiz. DueDate accepts
// RFC 3339 date-times or a plain YYYY-MM-DD date.
type CreateCommand struct {
	Title       string  `json:"title" validate:"notblank"`
	Course      string  `json:"course" validate:"notblank"`
	Description *string `json:"description"`
	DueDate     string  `json:"dueDate" validate:"required"`
	Status      *string `json:"status"`
}

// UpdateCommand carries a partial update. Nil fields are left unchanged.
type UpdateCommand struct {
	Title       *string `json:"title" validate:"omitnil,notblank"`
	Course      *string `json:"course" validate:"omitnil,notblank"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate" validate:"omitnil,notblank"`
	Status      *string `json:"status"`
}
