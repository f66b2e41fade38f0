// Package memory provides a map-backed core.Storage. Records are listed in
// first-insertion order and copied on every read and write.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/minions/pkg/core"
	"github.com/aretw0/minions/pkg/storage"
)

// Repository is an in-memory storage adapter.
type Repository struct {
	mu      sync.RWMutex
	records map[string]core.Minion
	order   []string
}

// New creates an empty in-memory repository.
func New() *Repository {
	return &Repository{records: make(map[string]core.Minion)}
}

func (r *Repository) Get(ctx context.Context, id string) (core.Minion, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.records[id]
	if !ok {
		return core.Minion{}, false, nil
	}
	return m.Clone(), true, nil
}

func (r *Repository) Set(ctx context.Context, m core.Minion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set(m)
	return nil
}

func (r *Repository) set(m core.Minion) {
	if _, ok := r.records[m.ID]; !ok {
		r.order = append(r.order, m.ID)
	}
	r.records[m.ID] = m.Clone()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delete(id)
	return nil
}

func (r *Repository) delete(id string) {
	if _, ok := r.records[id]; !ok {
		return
	}
	delete(r.records, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
}

func (r *Repository) List(ctx context.Context, f core.Filter) ([]core.Minion, error) {
	return storage.ApplyFilter(r.snapshot(), f), nil
}

func (r *Repository) Search(ctx context.Context, query string) ([]core.Minion, error) {
	return storage.Search(r.snapshot(), query), nil
}

// Len returns the number of stored records, deleted ones included.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Repository) snapshot() []core.Minion {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Minion, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id].Clone())
	}
	return out
}

// Begin starts a transaction. Staged changes are applied under a single
// lock on Commit.
func (r *Repository) Begin(ctx context.Context) (core.Transaction, error) {
	return &Transaction{
		repo:    r,
		staged:  make(map[string]core.Minion),
		deleted: make(map[string]bool),
	}, nil
}

// Transaction implements core.Transaction for the in-memory repository.
type Transaction struct {
	repo    *Repository
	staged  map[string]core.Minion
	order   []string
	deleted map[string]bool
	mu      sync.Mutex
	closed  bool
}

func (t *Transaction) Set(ctx context.Context, m core.Minion) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return core.ErrTransactionClosed
	}
	if _, ok := t.staged[m.ID]; !ok {
		t.order = append(t.order, m.ID)
	}
	t.staged[m.ID] = m.Clone()
	delete(t.deleted, m.ID)
	return nil
}

func (t *Transaction) Get(ctx context.Context, id string) (core.Minion, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return core.Minion{}, false, core.ErrTransactionClosed
	}
	if t.deleted[id] {
		return core.Minion{}, false, nil
	}
	if m, ok := t.staged[id]; ok {
		return m.Clone(), true, nil
	}
	return t.repo.Get(ctx, id)
}

func (t *Transaction) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return core.ErrTransactionClosed
	}
	t.deleted[id] = true
	if _, ok := t.staged[id]; ok {
		delete(t.staged, id)
		t.order = slices.DeleteFunc(t.order, func(v string) bool { return v == id })
	}
	return nil
}

func (t *Transaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return core.ErrTransactionClosed
	}

	t.repo.mu.Lock()
	for _, id := range t.order {
		t.repo.set(t.staged[id])
	}
	for id := range t.deleted {
		t.repo.delete(id)
	}
	t.repo.mu.Unlock()

	t.closed = true
	return nil
}

func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.staged = nil
	t.deleted = nil
	t.order = nil
	t.closed = true
	return nil
}

var (
	_ core.TransactionalStorage = (*Repository)(nil)
	_ core.Transaction          = (*Transaction)(nil)
)
