package announcements

import (
	"context"

	"github.com/JaimeStill/campus/pkg/docstore"
)

// DefaultSort lists the newest announcements first.
var DefaultSort = docstore.Desc(docstore.FieldCreatedAt)

// Repository is the only path from the announcement service to the document store.
// Lookups return a nil document, not an error, when the id matches nothing.
type Repository interface {
	FindAll(ctx context.Context, sort ...docstore.Sort) ([]docstore.Document, error)
	FindByID(ctx context.Context, id string) (docstore.Document, error)
	Create(ctx context.Context, fields docstore.Document) (docstore.Document, error)
	Update(ctx context.Context, id string, fields docstore.Document) (docstore.Document, error)
	Delete(ctx context.Context, id string) (docstore.Document, error)
}

type repository struct {
	coll docstore.Collection
}

// NewRepository creates a Repository over the announcements collection of store.
func NewRepository(store docstore.System) Repository {
	return &repository{coll: store.Collection(Collection)}
}

func (r *repository) FindAll(ctx context.Context, sort ...docstore.Sort) ([]docstore.Document, error) {
	if len(sort) == 0 {
		sort = []docstore.Sort{DefaultSort}
	}
	return r.coll.Find(ctx, sort...)
}

func (r *repository) FindByID(ctx context.Context, id string) (docstore.Document, error) {
	return r.coll.FindByID(ctx, id)
}

func (r *repository) Create(ctx context.Context, fields docstore.Document) (docstore.Document, error) {
	return r.coll.Insert(ctx, fields)
}

func (r *repository) Update(ctx context.Context, id string, fields docstore.Document) (docstore.Document, error) {
	return r.coll.UpdateByID(ctx, id, fields)
}

func (r *repository) Delete(ctx context.Context, id string) (docstore.Document, error) {
	return r.coll.DeleteByID(ctx, id)
}
