// Package typed provides Go-struct views over record fields.
package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/minions/pkg/core"
	"github.com/aretw0/minions/pkg/validation"
)

// Record pairs a stored minion with its fields decoded into T.
type Record[T any] struct {
	Minion core.Minion
	Data   T        // The typed fields
	Saver  Saver[T] // Active Record reference
}

// Saver persists a typed record.
type Saver[T any] interface {
	Save(ctx context.Context, rec *Record[T]) error
}

// Save persists the record using the attached saver.
func (r *Record[T]) Save(ctx context.Context) error {
	if r.Saver == nil {
		return fmt.Errorf("record is detached (missing Saver)")
	}
	return r.Saver.Save(ctx, r)
}

// ToMinion returns the underlying minion with Data encoded into its fields.
func (r *Record[T]) ToMinion() (core.Minion, error) {
	fields, err := Encode(r.Data)
	if err != nil {
		return core.Minion{}, err
	}
	m := r.Minion.Clone()
	m.Fields = fields
	return m, nil
}

// Decode converts the field map of m into T.
func Decode[T any](m core.Minion) (T, error) {
	var data T
	raw, err := json.Marshal(core.CopyFields(m.Fields))
	if err != nil {
		return data, fmt.Errorf("fields marshal failed: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return data, nil
}

// Encode converts v into a field map.
func Encode[T any](v T) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed data: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to convert typed data to map: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Wrap decodes m into a detached Record.
func Wrap[T any](m core.Minion) (*Record[T], error) {
	data, err := Decode[T](m)
	if err != nil {
		return nil, err
	}
	return &Record[T]{Minion: m.Clone(), Data: data}, nil
}

// Repository gives type-safe access to the records of one MinionType.
type Repository[T any] struct {
	store core.Storage
	t     core.MinionType
}

// NewRepository wraps store for records of type t. Saves are validated
// against t's schema.
func NewRepository[T any](store core.Storage, t core.MinionType) *Repository[T] {
	return &Repository[T]{store: store, t: t}
}

// Save validates and persists rec. Missing ids and timestamps are filled in.
func (r *Repository[T]) Save(ctx context.Context, rec *Record[T]) error {
	m, err := rec.ToMinion()
	if err != nil {
		return err
	}
	if err := validation.ValidateFields(m.Fields, r.t.Schema).AsFailure(); err != nil {
		return err
	}

	now := core.Now()
	if m.ID == "" {
		m.ID = core.NewID()
	}
	if m.MinionTypeID == "" {
		m.MinionTypeID = r.t.ID
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.Status == "" {
		m.Status = core.StatusActive
	}
	m.UpdatedAt = now

	if err := r.store.Set(ctx, m); err != nil {
		return err
	}
	rec.Minion = m
	if rec.Saver == nil {
		rec.Saver = r
	}
	return nil
}

// Get retrieves a record and decodes it.
func (r *Repository[T]) Get(ctx context.Context, id string) (*Record[T], error) {
	m, ok, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok || m.MinionTypeID != r.t.ID {
		return nil, fmt.Errorf("%s: %w", id, core.ErrNotFound)
	}
	return r.attach(m)
}

// List returns the live records of the repository's type.
func (r *Repository[T]) List(ctx context.Context) ([]*Record[T], error) {
	all, err := r.store.List(ctx, core.Filter{MinionTypeID: r.t.ID})
	if err != nil {
		return nil, err
	}

	result := make([]*Record[T], 0, len(all))
	for _, m := range all {
		rec, err := r.attach(m)
		if err != nil {
			return nil, fmt.Errorf("failed to process record %s: %w", m.ID, err)
		}
		result = append(result, rec)
	}
	return result, nil
}

// Delete removes a record by id.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

func (r *Repository[T]) attach(m core.Minion) (*Record[T], error) {
	rec, err := Wrap[T](m)
	if err != nil {
		return nil, err
	}
	rec.Saver = r
	return rec, nil
}
