// Package memory provides an in-process implementation of storage.Store.
// It is used for tests and for running the server without a database file.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mmynk/eventbook/internal/models"
	"github.com/mmynk/eventbook/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Collection keeps records of one type in insertion order.
type Collection[T any] struct {
	mu      sync.RWMutex
	records map[string]T
	order   []string

	idOf    func(T) string
	withID  func(T, string) T
	field   func(T, string) (string, bool)
	prepare func(T) (T, error)
}

func newCollection[T any](idOf func(T) string, withID func(T, string) T, field func(T, string) (string, bool)) *Collection[T] {
	return &Collection[T]{
		records: make(map[string]T),
		idOf:    idOf,
		withID:  withID,
		field:   field,
	}
}

// List returns every record in insertion order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	return c.Filter(ctx, nil)
}

// Filter returns records whose fields equal every filter value.
func (c *Collection[T]) Filter(ctx context.Context, filter storage.Filter) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []T
	for _, id := range c.order {
		record := c.records[id]
		match := true
		for name, want := range filter {
			got, ok := c.field(record, name)
			if !ok {
				return nil, fmt.Errorf("%w: %s", storage.ErrUnknownFilter, name)
			}
			if got != want {
				match = false
				break
			}
		}
		if match {
			out = append(out, record)
		}
	}
	return out, nil
}

// Get returns one record.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.records[id]
	if !ok {
		return record, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return record, nil
}

// Create stores a new record, generating an id if it has none.
func (c *Collection[T]) Create(ctx context.Context, record T) (T, error) {
	if err := ctx.Err(); err != nil {
		return record, err
	}
	if c.idOf(record) == "" {
		record = c.withID(record, uuid.New().String())
	}
	if c.prepare != nil {
		var err error
		if record, err = c.prepare(record); err != nil {
			return record, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.idOf(record)
	if _, exists := c.records[id]; exists {
		return record, fmt.Errorf("%w: %s", storage.ErrAlreadyExists, id)
	}
	c.order = append(c.order, id)
	c.records[id] = record
	return record, nil
}

// BulkCreate stores every record.
func (c *Collection[T]) BulkCreate(ctx context.Context, records []T) ([]T, error) {
	created := make([]T, 0, len(records))
	for _, record := range records {
		r, err := c.Create(ctx, record)
		if err != nil {
			return created, err
		}
		created = append(created, r)
	}
	return created, nil
}

// Update replaces an existing record.
func (c *Collection[T]) Update(ctx context.Context, id string, record T) (T, error) {
	if err := ctx.Err(); err != nil {
		return record, err
	}
	record = c.withID(record, id)
	if c.prepare != nil {
		var err error
		if record, err = c.prepare(record); err != nil {
			return record, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.records[id]; !ok {
		return record, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	c.records[id] = record
	return record, nil
}

// Delete removes a record.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.records[id]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	delete(c.records, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Store is an in-memory storage.Store.
type Store struct {
	events    *Collection[models.Event]
	lines     *Collection[models.ServiceLine]
	payments  *Collection[models.Payment]
	services  *Collection[models.Service]
	packages  *Collection[models.Package]
	suppliers *Collection[models.Supplier]
}

// New creates an empty Store.
func New() *Store {
	lines := newCollection(
		func(l models.ServiceLine) string {
			id, _ := l.ID.Persisted()
			return id
		},
		func(l models.ServiceLine, id string) models.ServiceLine {
			l.ID = models.PersistedID(id)
			return l
		},
		func(l models.ServiceLine, name string) (string, bool) {
			switch name {
			case "event_id":
				return l.EventID, true
			case "service_id":
				return l.ServiceID, true
			case "package_id":
				return l.PackageID, true
			case "parent_line_id":
				id, _ := l.ParentLineID.Persisted()
				return id, true
			}
			return "", false
		},
	)
	lines.prepare = func(l models.ServiceLine) (models.ServiceLine, error) {
		if l.ParentLineID.IsPlaceholder() {
			return l, fmt.Errorf("%w: parent %s", storage.ErrPlaceholderReference, l.ParentLineID)
		}
		return l.Clone(), nil
	}

	return &Store{
		events: newCollection(
			func(e models.Event) string { return e.ID },
			func(e models.Event, id string) models.Event {
				e.ID = id
				return e
			},
			func(e models.Event, name string) (string, bool) {
				if name == "status" {
					return string(e.Status), true
				}
				return "", false
			},
		),
		lines: lines,
		payments: newCollection(
			func(p models.Payment) string { return p.ID },
			func(p models.Payment, id string) models.Payment {
				p.ID = id
				return p
			},
			func(p models.Payment, name string) (string, bool) {
				switch name {
				case "event_id":
					return p.EventID, true
				case "method":
					return p.Method, true
				}
				return "", false
			},
		),
		services: newCollection(
			func(s models.Service) string { return s.ID },
			func(s models.Service, id string) models.Service {
				s.ID = id
				return s
			},
			func(s models.Service, name string) (string, bool) {
				if name == "category" {
					return s.Category, true
				}
				return "", false
			},
		),
		packages: newCollection(
			func(p models.Package) string { return p.ID },
			func(p models.Package, id string) models.Package {
				p.ID = id
				return p
			},
			func(models.Package, string) (string, bool) { return "", false },
		),
		suppliers: newCollection(
			func(s models.Supplier) string { return s.ID },
			func(s models.Supplier, id string) models.Supplier {
				s.ID = id
				return s
			},
			func(s models.Supplier, name string) (string, bool) {
				if name == "name" {
					return s.Name, true
				}
				return "", false
			},
		),
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) Events() storage.Collection[models.Event]             { return s.events }
func (s *Store) ServiceLines() storage.Collection[models.ServiceLine] { return s.lines }
func (s *Store) Payments() storage.Collection[models.Payment]         { return s.payments }
func (s *Store) Services() storage.Collection[models.Service]         { return s.services }
func (s *Store) Packages() storage.Collection[models.Package]         { return s.packages }
func (s *Store) Suppliers() storage.Collection[models.Supplier]       { return s.suppliers }
