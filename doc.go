// Package minions is the composition root for the minions record store.
//
// A minion is a structured record whose fields are validated against a
// named schema (a MinionType). Records can be soft-deleted and restored,
// linked with typed relations, migrated between schema versions and
// persisted through a pluggable storage adapter.
//
// Features:
//
//   - **Typed records**: ten builtin types (note, task, contact, agent, ...) plus your own.
//   - **Validation**: every create and update is checked against the field schema.
//   - **Storage adapters**: in-memory, or sharded JSON/YAML files with an index and watcher.
//   - **Middleware and plugins**: wrap every client operation; mount extensions by namespace.
//   - **Typed views**: decode record fields into Go structs (`NewTypedRepository[T]`).
//
// Usage:
//
//	c, err := minions.New("./data",
//		minions.WithAdapter(minions.AdapterYAML),
//		minions.WithLogger(logger),
//	)
//
//	w, err := c.Create(ctx, "note", core.CreateMinionInput{
//		Title:  "Hello",
//		Fields: map[string]any{"content": "first note"},
//	})
//	err = w.Save(ctx)
package minions
