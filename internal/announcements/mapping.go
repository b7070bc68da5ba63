package announcements

import (
	"github.com/JaimeStill/campus/pkg/docstore"
	"github.com/JaimeStill/campus/pkg/mapping"
)

// ToAnnouncement projects a persisted document. A nil document maps to nil.
func ToAnnouncement(doc docstore.Document) (*Announcement, error) {
	if doc == nil {
		return nil, nil
	}

	var (
		a   Announcement
		err error
	)

	if a.ID, err = mapping.ID(docstore.FieldID, doc[docstore.FieldID]); err != nil {
		return nil, err
	}
	if a.Title, err = mapping.String(fieldTitle, doc[fieldTitle]); err != nil {
		return nil, err
	}
	if a.Content, err = mapping.String(fieldContent, doc[fieldContent]); err != nil {
		return nil, err
	}
	if a.Category, err = mapping.NullableString(fieldCategory, doc[fieldCategory]); err != nil {
		return nil, err
	}
	if a.AuthorName, err = mapping.String(fieldAuthorName, doc[fieldAuthorName]); err != nil {
		return nil, err
	}
	if a.AuthorAvatar, err = mapping.NullableString(fieldAuthorAvatar, doc[fieldAuthorAvatar]); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = mapping.Time(docstore.FieldCreatedAt, doc[docstore.FieldCreatedAt]); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = mapping.Time(docstore.FieldUpdatedAt, doc[docstore.FieldUpdatedAt]); err != nil {
		return nil, err
	}

	return &a, nil
}

// ToAnnouncements projects every document or fails without a partial list.
func ToAnnouncements(docs []docstore.Document) ([]Announcement, error) {
	return mapping.List(docs, func(doc docstore.Document) (Announcement, error) {
		a, err := ToAnnouncement(doc)
		if err != nil {
			return Announcement{}, err
		}
		if a == nil {
			return Announcement{}, &mapping.Error{Field: docstore.FieldID, Err: mapping.ErrMissingField}
		}
		return *a, nil
	})
}
