package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/minions/pkg/core"
	"github.com/aretw0/minions/pkg/evolution"
	"github.com/aretw0/minions/pkg/lifecycle"
)

// Create builds a new record of the type registered under typeSlug.
func (c *Client) Create(ctx context.Context, typeSlug string, input core.CreateMinionInput) (*Wrapper, error) {
	mc, err := c.run(ctx, OpCreate, map[string]any{"typeSlug": typeSlug, "input": input}, func(mc *Context) error {
		t, ok := c.registry.GetBySlug(typeSlug)
		if !ok {
			return fmt.Errorf("type %q: %w", typeSlug, core.ErrUnknownType)
		}
		m, res := lifecycle.Create(input, t)
		if err := res.AsFailure(); err != nil {
			return fmt.Errorf("create %s: %w", typeSlug, err)
		}
		mc.Result = c.wrap(m)
		return nil
	})
	return resultAs[*Wrapper](mc, err)
}

// Update applies a partial update to m.
func (c *Client) Update(ctx context.Context, m core.Minion, input core.UpdateMinionInput) (*Wrapper, error) {
	mc, err := c.run(ctx, OpUpdate, map[string]any{"minion": m, "input": input}, func(mc *Context) error {
		t, ok := c.registry.GetByID(m.MinionTypeID)
		if !ok {
			return fmt.Errorf("type %q: %w", m.MinionTypeID, core.ErrUnknownType)
		}
		updated, res := lifecycle.Update(m, input, t)
		if err := res.AsFailure(); err != nil {
			return fmt.Errorf("update %s: %w", m.ID, err)
		}
		mc.Result = c.wrap(updated)
		return nil
	})
	return resultAs[*Wrapper](mc, err)
}

// SoftDelete marks m as deleted by deletedBy (may be empty).
func (c *Client) SoftDelete(ctx context.Context, m core.Minion, deletedBy string) (*Wrapper, error) {
	mc, err := c.run(ctx, OpSoftDelete, map[string]any{"minion": m, "deletedBy": deletedBy}, func(mc *Context) error {
		mc.Result = c.wrap(lifecycle.SoftDelete(m, deletedBy))
		return nil
	})
	return resultAs[*Wrapper](mc, err)
}

// Restore clears the deletion markers of m.
func (c *Client) Restore(ctx context.Context, m core.Minion) (*Wrapper, error) {
	mc, err := c.run(ctx, OpRestore, map[string]any{"minion": m}, func(mc *Context) error {
		mc.Result = c.wrap(lifecycle.Restore(m))
		return nil
	})
	return resultAs[*Wrapper](mc, err)
}

// HardDelete removes every relation touching m from the graph. Storage
// is left untouched; see Remove.
func (c *Client) HardDelete(ctx context.Context, m core.Minion) (int, error) {
	mc, err := c.run(ctx, OpHardDelete, map[string]any{"minion": m}, func(mc *Context) error {
		mc.Result = lifecycle.HardDelete(m, c.graph)
		return nil
	})
	if err != nil {
		return 0, err
	}
	n, _ := mc.Result.(int)
	return n, nil
}

// Save persists m.
func (c *Client) Save(ctx context.Context, m core.Minion) error {
	_, err := c.run(ctx, OpSave, map[string]any{"minion": m}, func(mc *Context) error {
		s, err := c.requireStorage()
		if err != nil {
			return err
		}
		return s.Set(ctx, m)
	})
	return err
}

// Load fetches a record by id. A chain that ends without a result reports
// the record as absent.
func (c *Client) Load(ctx context.Context, id string) (core.Minion, bool, error) {
	mc, err := c.run(ctx, OpLoad, map[string]any{"id": id}, func(mc *Context) error {
		s, err := c.requireStorage()
		if err != nil {
			return err
		}
		m, ok, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if ok {
			mc.Result = m
		}
		return nil
	})
	if err != nil {
		return core.Minion{}, false, err
	}
	m, ok := mc.Result.(core.Minion)
	return m, ok, nil
}

// Remove drops m's relations and deletes it from storage.
func (c *Client) Remove(ctx context.Context, m core.Minion) error {
	_, err := c.run(ctx, OpRemove, map[string]any{"minion": m}, func(mc *Context) error {
		s, err := c.requireStorage()
		if err != nil {
			return err
		}
		lifecycle.HardDelete(m, c.graph)
		return s.Delete(ctx, m.ID)
	})
	return err
}

// List returns the stored records matching f.
func (c *Client) List(ctx context.Context, f core.Filter) ([]core.Minion, error) {
	mc, err := c.run(ctx, OpList, map[string]any{"filter": f}, func(mc *Context) error {
		s, err := c.requireStorage()
		if err != nil {
			return err
		}
		out, err := s.List(ctx, f)
		if err != nil {
			return err
		}
		mc.Result = out
		return nil
	})
	return resultAs[[]core.Minion](mc, err)
}

// Search runs a text query against storage.
func (c *Client) Search(ctx context.Context, query string) ([]core.Minion, error) {
	mc, err := c.run(ctx, OpSearch, map[string]any{"query": query}, func(mc *Context) error {
		s, err := c.requireStorage()
		if err != nil {
			return err
		}
		out, err := s.Search(ctx, query)
		if err != nil {
			return err
		}
		mc.Result = out
		return nil
	})
	return resultAs[[]core.Minion](mc, err)
}

// Migrate moves m from oldSchema to newSchema.
func (c *Client) Migrate(ctx context.Context, m core.Minion, oldSchema, newSchema []core.FieldDefinition) (core.Minion, error) {
	args := map[string]any{"minion": m, "oldSchema": oldSchema, "newSchema": newSchema}
	mc, err := c.run(ctx, OpMigrate, args, func(mc *Context) error {
		mc.Result = evolution.Migrate(m, oldSchema, newSchema)
		return nil
	})
	return resultAs[core.Minion](mc, err)
}

// MigrateAll migrates every stored record of typeID, soft-deleted ones
// included, and persists the results. Writes go through a transaction
// when the storage supports one. It returns the number of records migrated.
func (c *Client) MigrateAll(ctx context.Context, typeID string, oldSchema, newSchema []core.FieldDefinition) (int, error) {
	s, err := c.requireStorage()
	if err != nil {
		return 0, err
	}
	records, err := s.List(ctx, core.Filter{MinionTypeID: typeID, IncludeDeleted: true})
	if err != nil {
		return 0, err
	}

	changes := evolution.Diff(oldSchema, newSchema)
	c.logger.Info("migrating records", "type", typeID, "records", len(records), "changes", len(changes))

	migrated := make([]core.Minion, 0, len(records))
	for _, m := range records {
		out, err := c.Migrate(ctx, m, oldSchema, newSchema)
		if err != nil {
			return 0, fmt.Errorf("migrate %s: %w", m.ID, err)
		}
		migrated = append(migrated, out)
	}

	if ts, ok := s.(core.TransactionalStorage); ok {
		tx, err := ts.Begin(ctx)
		if err != nil {
			return 0, err
		}
		for _, m := range migrated {
			if err := tx.Set(ctx, m); err != nil {
				_ = tx.Rollback(ctx)
				return 0, err
			}
		}
		if err := tx.Commit(ctx); err != nil {
			return 0, err
		}
		return len(migrated), nil
	}

	for i, m := range migrated {
		if err := s.Set(ctx, m); err != nil {
			return i, err
		}
	}
	return len(migrated), nil
}

// Link validates input and adds the relation to the graph.
func (c *Client) Link(input core.CreateRelationInput) (core.Relation, error) {
	if err := c.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return core.Relation{}, err
		}
		failure := &core.ValidationFailure{}
		for _, fe := range verrs {
			failure.Errors = append(failure.Errors, core.ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed on the %q rule", fe.Tag()),
			})
		}
		return core.Relation{}, failure
	}
	if !input.Type.IsValid() {
		return core.Relation{}, &core.ValidationFailure{Errors: []core.ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("Unknown relation type: %s", input.Type),
			Value:   input.Type,
		}}}
	}
	return c.graph.Add(input), nil
}
