package minions

import (
	"fmt"

	"github.com/aretw0/minions/pkg/client"
	"github.com/aretw0/minions/pkg/core"
	"github.com/aretw0/minions/pkg/typed"
)

// Record pairs a stored record with its fields decoded into T.
type Record[T any] = typed.Record[T]

// TypedRepository stores values of T as records of one type.
type TypedRepository[T any] = typed.Repository[T]

// NewTypedRepository creates a type-safe wrapper around a storage for the
// records of type t.
func NewTypedRepository[T any](store core.Storage, t core.MinionType) *TypedRepository[T] {
	return typed.NewRepository[T](store, t)
}

// OpenTypedRepository opens the client's storage as a TypedRepository for
// the type registered under slug.
func OpenTypedRepository[T any](c *client.Client, slug string) (*TypedRepository[T], error) {
	if c.Storage() == nil {
		return nil, core.ErrNoStorage
	}
	t, ok := c.Registry().GetBySlug(slug)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownType, slug)
	}
	return typed.NewRepository[T](c.Storage(), t), nil
}
