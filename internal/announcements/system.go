package announcements

import "context"

// System defines the public contract for announcement operations.
// Find and Update return nil, not an error, when the id matches nothing.
type System interface {
	Handler() *Handler

	List(ctx context.Context) ([]Announcement, error)
	Find(ctx context.Context, id string) (*Announcement, error)
	Create(ctx context.Context, cmd CreateCommand) (*Announcement, error)
	Update(ctx context.Context, id string, cmd UpdateCommand) (*Announcement, error)
	Delete(ctx context.Context, id string) error
}
