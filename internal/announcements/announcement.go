// Package announcements implements the announcement resource: persistence,
// projection to the transport shape, business rules and HTTP endpoints.
package announcements

import (
	"time"

	"github.com/JaimeStill/campus/pkg/storage"
)

// Collection is the document store collection holding announcements.
const Collection = "announcements"

// Document field names.
const (
	fieldTitle        = "title"
	fieldContent      = "content"
	fieldCategory     = "category"
	fieldAuthorName   = "authorName"
	fieldAuthorAvatar = "authorAvatar"
)

// Announcement is the transport shape of a persisted announcement.
type Announcement struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     *string   `json:"category"`
	AuthorName   string    `json:"authorName"`
	AuthorAvatar *string   `json:"authorAvatar"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateCommand carries the data needed to create an announcement.
// Avatar, when set, replaces AuthorAvatar with the URL of the stored file.
type CreateCommand struct {
	Title        string        `json:"title" validate:"notblank"`
	Content      string        `json:"content" validate:"notblank"`
	Category     *string       `json:"category"`
	AuthorName   string        `json:"authorName" validate:"notblank"`
	AuthorAvatar *string       `json:"authorAvatar"`
	Avatar       *storage.File `json:"-"`
}

// UpdateCommand carries a partial update. Nil fields are left unchanged;
// an empty Category or AuthorAvatar clears the field.
type UpdateCommand struct {
	Title        *string       `json:"title" validate:"omitnil,notblank"`
	Content      *string       `json:"content" validate:"omitnil,notblank"`
	Category     *string       `json:"category"`
	AuthorName   *string       `json:"authorName" validate:"omitnil,notblank"`
	AuthorAvatar *string       `json:"authorAvatar"`
	Avatar       *storage.File `json:"-"`
}
