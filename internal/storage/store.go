// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/eventbook/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when creating a record whose id is taken.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrUnknownFilter is returned when filtering on a field the collection
	// does not index.
	ErrUnknownFilter = errors.New("unknown filter field")

	// ErrPlaceholderReference is returned when a client-side placeholder id
	// would be written to the store.
	ErrPlaceholderReference = errors.New("placeholder id cannot be persisted")
)

// Filter selects records whose fields equal the given values.
type Filter map[string]string

// Collection is the generic entity store for one record type. Calls are
// independent remote operations: no transactions, no compare-and-swap.
type Collection[T any] interface {
	// List returns every record.
	List(ctx context.Context) ([]T, error)

	// Filter returns the records matching all filter fields.
	Filter(ctx context.Context, filter Filter) ([]T, error)

	// Get returns one record or ErrNotFound.
	Get(ctx context.Context, id string) (T, error)

	// Create persists a new record and returns it with its assigned id.
	Create(ctx context.Context, record T) (T, error)

	// Update replaces the record with the given id.
	Update(ctx context.Context, id string, record T) (T, error)

	// Delete removes the record with the given id.
	Delete(ctx context.Context, id string) error
}

// BulkCreator is implemented by collections that can create many records in
// one round trip.
type BulkCreator[T any] interface {
	BulkCreate(ctx context.Context, records []T) ([]T, error)
}

// Store bundles the collections of every entity type.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	Events() Collection[models.Event]
	ServiceLines() Collection[models.ServiceLine]
	Payments() Collection[models.Payment]
	Services() Collection[models.Service]
	Packages() Collection[models.Package]
	Suppliers() Collection[models.Supplier]

	// Close releases any resources held by the store.
	Close() error
}
