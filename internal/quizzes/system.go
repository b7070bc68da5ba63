package quizzes

import "context"

// System defines the public contract for quiz operations.
// Find and Update return nil, not an error, when the id matches nothing.
type System interface {
	Handler() *Handler

	List(ctx context.Context) ([]Quiz, error)
	Find(ctx context.Context, id string) (*Quiz, error)
	Create(ctx context.Context, cmd CreateCommand) (*Quiz, error)
	Update(ctx context.Context, id string, cmd UpdateCommand) (*Quiz, error)
	Delete(ctx context.Context, id string) error
}
