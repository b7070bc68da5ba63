package docstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/campus/pkg/lifecycle"
)

// MemoryOption configures an in-memory store.
type MemoryOption func(*memoryStore)

// WithClock overrides the clock used for engine timestamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *memoryStore) {
		m.now = now
	}
}

type memoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
	now         func() time.Time
}

// NewMemory creates a process-local document store. Data does not survive a restart.
func NewMemory(opts ...MemoryOption) System {
	m := &memoryStore{
		collections: make(map[string]*memoryCollection),
		now:         engineNow,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *memoryStore) Collection(name string) Collection {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[name]
	if !ok {
		c = &memoryCollection{now: m.now}
		m.collections[name] = c
	}
	return c
}

func (m *memoryStore) Start(lc *lifecycle.Coordinator) error {
	return nil
}

type memoryCollection struct {
	mu   sync.RWMutex
	docs []Document
	now  func() time.Time
}

func (c *memoryCollection) Insert(_ context.Context, fields Document) (Document, error) {
	doc := Document{}
	for k, v := range fields {
		if !isReserved(k) {
			doc[k] = v
		}
	}

	now := c.now()
	doc[FieldID] = uuid.NewString()
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now

	c.mu.Lock()
	c.docs = append(c.docs, doc)
	c.mu.Unlock()

	return doc.Clone(), nil
}

func (c *memoryCollection) Find(_ context.Context, sort ...Sort) ([]Document, error) {
	c.mu.RLock()
	out := make([]Document, 0, len(c.docs))
	for _, d := range c.docs {
		out = append(out, d.Clone())
	}
	c.mu.RUnlock()

	if len(sort) > 0 {
		slices.SortStableFunc(out, func(a, b Document) int {
			for _, s := range sort {
				r := compareValues(a[s.Field], b[s.Field])
				if s.Descending {
					r = -r
				}
				if r != 0 {
					return r
				}
			}
			return 0
		})
	}
	return out, nil
}

func (c *memoryCollection) FindByID(_ context.Context, id string) (Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.index(id); i >= 0 {
		return c.docs[i].Clone(), nil
	}
	return nil, nil
}

func (c *memoryCollection) UpdateByID(_ context.Context, id string, fields Document) (Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return nil, nil
	}

	doc := c.docs[i]
	for k, v := range fields {
		if !isReserved(k) {
			doc[k] = v
		}
	}
	doc[FieldUpdatedAt] = c.now()

	return doc.Clone(), nil
}

func (c *memoryCollection) DeleteByID(_ context.Context, id string) (Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return nil, nil
	}

	doc := c.docs[i]
	c.docs = slices.Delete(c.docs, i, i+1)
	return doc, nil
}

func (c *memoryCollection) Clear(_ context.Context) error {
	c.mu.Lock()
	c.docs = nil
	c.mu.Unlock()
	return nil
}

func (c *memoryCollection) index(id string) int {
	return slices.IndexFunc(c.docs, func(d Document) bool {
		return d[FieldID] == id
	})
}

// compareValues orders nil first, then compares like-typed values.
// Mismatched types fall back to their formatted representation.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return cmp.Compare(av, bv)
		}
	case int:
		if bv, ok := b.(int); ok {
			return cmp.Compare(av, bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return cmp.Compare(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmp.Compare(av, bv)
		}
	}

	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
