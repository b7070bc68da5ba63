// Package docstore defines the persistence engine contract used by the resource
// repositories and provides MongoDB, PostgreSQL (JSONB) and in-memory drivers.
//
// Every driver hands records back as a Document: a plain field-value mapping
// whose native identifier and timestamp types have already been normalized,
// so mappers never need to know which engine produced a record.
package docstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/campus/pkg/lifecycle"
)

// Reserved fields assigned by the engine on every document.
const (
	FieldID        = "_id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Supported driver names.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Document is the normalized field-value form of a persisted record.
type Document map[string]any

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Sort orders results by a single field.
type Sort struct {
	Field      string
	Descending bool
}

// Asc returns an ascending sort on field.
func Asc(field string) Sort {
	return Sort{Field: field}
}

// Desc returns a descending sort on field.
func Desc(field string) Sort {
	return Sort{Field: field, Descending: true}
}

// Collection exposes the per-collection primitives of the persistence engine.
//
// Lookups by id return (nil, nil) when no document matches, including when the
// id is not in a format the engine accepts.
type Collection interface {
	// Insert stores a new document. The engine assigns the identifier and the
	// creation and update timestamps; reserved fields in fields are ignored.
	Insert(ctx context.Context, fields Document) (Document, error)
	// Find returns every document in the collection ordered by sort.
	// An empty collection yields an empty, non-nil slice.
	Find(ctx context.Context, sort ...Sort) ([]Document, error)
	FindByID(ctx context.Context, id string) (Document, error)
	// UpdateByID replaces only the supplied fields and bumps the update
	// timestamp. It returns the post-update document and never upserts.
	UpdateByID(ctx context.Context, id string, fields Document) (Document, error)
	// DeleteByID removes the document and returns it as it was before removal.
	DeleteByID(ctx context.Context, id string) (Document, error)
	// Clear removes every document in the collection.
	Clear(ctx context.Context) error
}

// System provides collections and lifecycle coordination for a configured driver.
type System interface {
	Collection(name string) Collection
	// Start registers connection verification and cleanup hooks.
	Start(lc *lifecycle.Coordinator) error
}

// New creates a document store for the configured driver. Network drivers
// validate their configuration here but do not verify connectivity until Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "docstore", "driver", cfg.Driver)

	switch cfg.Driver {
	case DriverMongo:
		return newMongo(cfg, logger)
	case DriverPostgres:
		return newPostgres(cfg, logger)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func isReserved(field string) bool {
	return field == FieldID || field == FieldCreatedAt || field == FieldUpdatedAt
}
