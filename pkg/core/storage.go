package core

import (
	"context"
	"fmt"
)

// SortField names a record attribute that listings can be ordered by.
type SortField string

const (
	SortByTitle     SortField = "title"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

// SortOrder is the direction of a sorted listing.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filter narrows a storage listing. The zero value lists every record that
// is not soft-deleted, in storage order.
type Filter struct {
	MinionTypeID   string
	Status         MinionStatus
	IncludeDeleted bool
	// Tags must all be present on a record (AND).
	Tags      []string
	SortBy    SortField
	SortOrder SortOrder
	Offset    int
	// Limit of 0 means unlimited.
	Limit int
}

// Storage defines the contract for persisting records.
// Adhering to this interface keeps the client independent of the
// underlying mechanism (memory, sharded files, ...).
type Storage interface {
	// Get retrieves a record by id. The boolean is false when absent.
	Get(ctx context.Context, id string) (Minion, bool, error)

	// Set persists a record, replacing any record with the same id.
	Set(ctx context.Context, m Minion) error

	// Delete removes a record. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// List returns the records matching the filter.
	List(ctx context.Context, f Filter) ([]Minion, error)

	// Search returns non-deleted records containing every query token.
	Search(ctx context.Context, query string) ([]Minion, error)
}

// Initializer is implemented by storages that need setup before use
// (creating directories, loading an index).
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Transaction defines the contract for a unit of work.
type Transaction interface {
	// Set stages a record for persistence.
	Set(ctx context.Context, m Minion) error

	// Get retrieves a record, preferring the staged version.
	Get(ctx context.Context, id string) (Minion, bool, error)

	// Delete stages a record for removal.
	Delete(ctx context.Context, id string) error

	// Commit applies all staged changes.
	Commit(ctx context.Context) error

	// Rollback discards all staged changes.
	Rollback(ctx context.Context) error
}

// TransactionalStorage extends Storage to support transactions.
type TransactionalStorage interface {
	Storage

	// Begin starts a new transaction.
	Begin(ctx context.Context) (Transaction, error)
}

// EventType represents the kind of change observed in a store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a stored record.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}

// Watchable is implemented by storages that can report external changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
